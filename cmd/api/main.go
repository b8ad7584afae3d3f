package main

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
	"github.com/pressly/goose"

	"github.com/ddlog/ddlog/internal/api"
	"github.com/ddlog/ddlog/internal/repository"
	"github.com/ddlog/ddlog/internal/service"
	"github.com/ddlog/ddlog/pkg/cleanup"
	"github.com/ddlog/ddlog/pkg/config"
	jwtservice "github.com/ddlog/ddlog/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func runMigrations(dbCfg *repository.PGCfg) {
	db, err := sql.Open("postgres", dbCfg.ConnString()+"?sslmode=disable")
	if err != nil {
		log.Fatal("opening migration connection error: " + err.Error())
	}
	defer db.Close()
	if err := goose.Up(db, "./migrations"); err != nil {
		log.Fatal("applying migrations error: " + err.Error())
	}
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	runMigrations(&dbCfg)
	tasksRepo := repository.NewTasksRepo(&dbCfg)
	serv := api.New(&api.ServicesList{
		AuthService:  service.NewAuthService(repository.NewCredentialsRepo(&dbCfg)),
		TasksService: service.NewTasksService(tasksRepo),
		StatsService: service.NewStatsService(tasksRepo),
		Exporter:     service.NewExportService(),
		JwtService:   jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":3001"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
