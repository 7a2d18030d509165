package handlers

import (
	"net/http"

	"CardForge/internal/auth"
	"CardForge/internal/config"
	"CardForge/internal/middleware"

	"go.uber.org/zap"
)

// UserHandler runs the mock sign-in gate.
type UserHandler struct {
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewUserHandler(logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{Logger: logger, Config: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the credentials and sets the auth cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, err := auth.Authenticate(req.Email, req.Password)
	if err != nil {
		h.Logger.Infow("Login: rejected", "email", req.Email)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := middleware.SetLoginCookie(w, *user, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: issue token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Logger.Infow("Login: ok", "email", user.Email)
	writeJSON(w, http.StatusOK, user)
}

// Logout expires the auth cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}
