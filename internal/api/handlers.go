package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/ddlog/ddlog/internal/error_values"
	"github.com/ddlog/ddlog/pkg/httputil"
)

type PinRequest struct {
	Pin string `json:"pin"`
}

type AuthStatusResponse struct {
	HasUser       bool `json:"hasUser"`
	RequiresSetup bool `json:"requiresSetup"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "ddLOG server is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) AuthStatus(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	hasUser, err := s.authService.HasUser(ctx)
	if err != nil {
		logger.Error("auth status error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "failed to check auth status")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, AuthStatusResponse{
		HasUser:       hasUser,
		RequiresSetup: !hasUser,
	})
}

func (s *Server) Setup(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req PinRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("setup error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.authService.Setup(ctx, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidPin):
			logger.Error("setup error: malformed pin")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, errorvalues.ErrUserExists):
			logger.Error("setup error: credential already exists")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("setup error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during setup")
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"userId": user.ID.String(),
	})
	logger.Info("pin configured")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req PinRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.authService.Login(ctx, req.Pin)
	if err != nil {
		var lockedErr *errorvalues.LockedError
		var mismatchErr *errorvalues.PinMismatchError
		switch {
		case errors.Is(err, errorvalues.ErrInvalidPin):
			logger.Error("login error: malformed pin")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("login error: no credential configured")
			httputil.WriteErrorResponse(w, http.StatusNotFound, err.Error())
		case errors.As(err, &lockedErr):
			logger.Error("login error: credential locked", slog.Int("retry_after", lockedErr.RetryAfter))
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, lockedErr.Error())
		case errors.As(err, &mismatchErr):
			logger.Error("login error: wrong pin", slog.Int("attempts_left", mismatchErr.AttemptsLeft))
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, mismatchErr.Error())
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login")
		}
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
	logger.Info("successful login")
}
