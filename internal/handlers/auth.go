package handlers

import (
	"errors"
	"net/http"

	"apotek/internal/auth"
	"apotek/internal/logger"
)

type AuthHandler struct {
	page
	userService *auth.UserService
}

func NewAuthHandler(templates TemplateExecutor, sessions *auth.SessionManager, userService *auth.UserService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		page:        page{templates: templates, sessions: sessions, logger: log},
		userService: userService,
	}
}

func (h *AuthHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "landing.html", map[string]interface{}{"Title": "Apotek"})
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", map[string]interface{}{"Title": "Daftar"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, "danger", "Data formulir tidak valid.", "/register")
		return
	}

	username := r.PostFormValue("username")
	_, err := h.userService.Register(r.Context(), username, r.PostFormValue("password"))
	switch {
	case errors.Is(err, auth.ErrUserExists):
		h.flashRedirect(w, r, "danger", "Username sudah digunakan.", "/register")
		return
	case errors.Is(err, auth.ErrInvalidInput):
		h.flashRedirect(w, r, "danger", "Username dan password wajib diisi.", "/register")
		return
	case err != nil:
		h.serverError(w, "Failed to register user", err, map[string]interface{}{"username": username})
		return
	}

	h.logger.Info("User registered", map[string]interface{}{"username": username})
	h.flashRedirect(w, r, "success", "Akun berhasil dibuat! Silakan login.", "/login")
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", map[string]interface{}{"Title": "Login"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, "danger", "Data formulir tidak valid.", "/login")
		return
	}

	username := r.PostFormValue("username")
	user, err := h.userService.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("Login failed", map[string]interface{}{"username": username, "remote_addr": r.RemoteAddr})
			h.flashRedirect(w, r, "danger", "Username atau password salah.", "/login")
			return
		}
		h.serverError(w, "Failed to authenticate", err, map[string]interface{}{"username": username})
		return
	}

	if err := h.sessions.SetUser(w, r, user.ID); err != nil {
		h.serverError(w, "Session error", err, nil)
		return
	}

	http.Redirect(w, r, "/obat", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Warn("Failed to clear session", map[string]interface{}{"error": err})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
