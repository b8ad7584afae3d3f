package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/internal/service"
	"github.com/ddlog/ddlog/pkg/httputil"
)

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	var req service.CreateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.Create(ctx, uid, &req)
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("create task error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("create task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating task")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created")
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	date := r.URL.Query().Get("date")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.tasksService.List(ctx, uid, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("list tasks error: bad date filter")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("list tasks error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting tasks list")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
	logger.Info("tasks provided")
}

func (s *Server) TodayTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("today tasks error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.tasksService.ListToday(ctx, uid)
	if err != nil {
		logger.Error("today tasks error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting today tasks")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, tasks)
	logger.Info("today tasks provided")
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.Get(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			logger.Error("get task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task not found")
			return
		}
		logger.Error("get task error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting task")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value")
		return
	}
	var req service.UpdateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.tasksService.Update(ctx, id, uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound):
			logger.Error("update task error: unexist task")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "task not found")
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update task error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("update task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating task")
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("task deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	deleted, err := s.tasksService.Delete(ctx, id, uid)
	if err != nil {
		logger.Error("task deletion error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting task")
		return
	}
	if !deleted {
		logger.Error("task deletion error: unexist task")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "task not found")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"message": "task deleted successfully",
	})
	logger.Info("task deleted")
}

func (s *Server) Heatmap(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("heatmap error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	days, err := s.statsService.Heatmap(ctx, uid, startDate, endDate)
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("heatmap error: bad date bounds")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("heatmap error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while building heatmap")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, days)
	logger.Info("heatmap provided")
}

func (s *Server) ExportTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("export error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	format := r.PathValue("format")
	if format != "csv" && format != "pdf" {
		logger.Error("export error: unknown format")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid format, use csv or pdf")
		return
	}
	now := time.Now()
	endDate := r.URL.Query().Get("endDate")
	if endDate == "" {
		endDate = now.Format("2006-01-02")
	}
	startDate := r.URL.Query().Get("startDate")
	if startDate == "" {
		startDate = now.AddDate(0, 0, -7).Format("2006-01-02")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	tasks, err := s.tasksService.ListByDateRange(ctx, uid, startDate, endDate)
	if err != nil {
		if errors.Is(err, errorvalues.ErrValidation) {
			logger.Error("export error: bad date bounds")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("export error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while collecting tasks for export")
		return
	}
	filename := "tasks_" + startDate + "_" + endDate + "." + format
	var body []byte
	var contentType string
	switch format {
	case "csv":
		contentType = "text/csv"
		body, err = s.exporter.CSV(tasks)
	case "pdf":
		contentType = "application/pdf"
		body, err = s.exporter.PDF(tasks, startDate, endDate)
	}
	if err != nil {
		logger.Error("export error: rendering error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while rendering export file")
		return
	}
	httputil.WriteFileResponse(w, contentType, filename, body)
	logger.Info("export provided", slog.String("format", format))
}
