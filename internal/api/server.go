package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/ddlog/ddlog/internal/service"
)

type Server struct {
	mx           *chi.Mux
	authService  service.AuthServiceI
	tasksService service.TasksServiceI
	statsService service.StatsServiceI
	exporter     service.ExporterI
	jwtService   JWTServiceI
}

type ServicesList struct {
	AuthService  service.AuthServiceI
	TasksService service.TasksServiceI
	StatsService service.StatsServiceI
	Exporter     service.ExporterI
	JwtService   JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:           chi.NewMux(),
		authService:  servicesOptions.AuthService,
		tasksService: servicesOptions.TasksService,
		statsService: servicesOptions.StatsService,
		exporter:     servicesOptions.Exporter,
		jwtService:   servicesOptions.JwtService,
	}
}

func (s *Server) Run(addr string) error {
	s.routes()
	return http.ListenAndServe(addr, s.mx)
}

func (s *Server) routes() {
	s.mx.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api", func(r chi.Router) {
		r.Get("/health", s.Health)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", s.AuthStatus)
			r.Post("/setup", s.Setup)
			r.Post("/login", s.Login)
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/", s.ListTasks)
			r.Post("/", s.CreateTask)
			r.Get("/today", s.TodayTasks)
			r.Get("/heatmap", s.Heatmap)
			r.Get("/export/{format}", s.ExportTasks)
			r.Get("/{id}", s.GetTask)
			r.Put("/{id}", s.UpdateTask)
			r.Patch("/{id}", s.UpdateTask)
			r.Delete("/{id}", s.DeleteTask)
		})
	})
}
