package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/pokecatch/backend/internal/httpjson"
	"github.com/ayush/pokecatch/backend/internal/models"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register creates a new user. A taken email is answered with 200 and a
// message rather than an error status.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.svc.Register(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		httpjson.Message(w, http.StatusOK, "User registered successfully")
	case errors.Is(err, models.ErrDuplicateIdentity):
		httpjson.Message(w, http.StatusOK, "Email already registered")
	case errors.Is(err, models.ErrInvalidInput):
		httpjson.Error(w, http.StatusBadRequest, "email and password are required, password at most 72 bytes")
	default:
		h.logger.Errorw("register failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// Login authenticates a user and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		httpjson.Write(w, http.StatusOK, map[string]string{
			"message": "Login successful",
			"token":   token,
		})
	case errors.Is(err, models.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		httpjson.Error(w, http.StatusUnauthorized, "invalid credentials")
	default:
		h.logger.Errorw("login failed", "err", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
