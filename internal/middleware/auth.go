package middleware

import (
	"context"
	"errors"
	"net/http"

	"apotek/internal/auth"
	"apotek/internal/logger"
	"apotek/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

const loginRequiredMessage = "Harap login untuk mengakses halaman ini."

type AuthMiddleware struct {
	sessions    *auth.SessionManager
	userService *auth.UserService
	logger      logger.Logger
}

func NewAuthMiddleware(sessions *auth.SessionManager, userService *auth.UserService, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:    sessions,
		userService: userService,
		logger:      log,
	}
}

// RequireAuth loads the session user into the request context. Anonymous
// requests are sent to the login page with a notice.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.sessions.GetUserID(r)
		if !ok {
			m.redirectToLogin(w, r)
			return
		}

		user, err := m.userService.GetByID(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, auth.ErrUserNotFound) {
				m.logger.Error("Failed to load session user", map[string]interface{}{
					"user_id": userID,
					"error":   err,
				})
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if err := m.sessions.Clear(w, r); err != nil {
				m.logger.Warn("Failed to clear stale session", map[string]interface{}{
					"user_id": userID,
					"error":   err,
				})
			}
			m.redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectIfAuthenticated keeps logged-in users away from the public pages.
func (m *AuthMiddleware) RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.sessions.GetUserID(r); ok {
			http.Redirect(w, r, "/obat", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if err := m.sessions.AddFlash(w, r, "warning", loginRequiredMessage); err != nil {
		m.logger.Warn("Failed to store flash", map[string]interface{}{"error": err})
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func GetUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(UserContextKey).(*models.User)
	return user
}
