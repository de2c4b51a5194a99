package auth

import (
	"encoding/gob"
	"net/http"

	"apotek/internal/models"

	"github.com/gorilla/sessions"
)

const (
	SessionName   = "apotek-session"
	SessionUserID = "user_id"
)

func init() {
	gob.Register(models.Flash{})
}

type SessionManager struct {
	store          *sessions.CookieStore
	rememberMaxAge int
}

func NewSessionManager(secret string, maxAge, rememberMaxAge int, secure bool) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, rememberMaxAge: rememberMaxAge}
}

func (m *SessionManager) Get(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, SessionName)
}

// SetUser starts a persistent session for userID.
func (m *SessionManager) SetUser(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, err := m.Get(r)
	if err != nil && session == nil {
		return err
	}

	session.Values[SessionUserID] = userID
	if m.rememberMaxAge > 0 {
		session.Options.MaxAge = m.rememberMaxAge
	}

	return session.Save(r, w)
}

func (m *SessionManager) GetUserID(r *http.Request) (int64, bool) {
	session, err := m.Get(r)
	if err != nil {
		return 0, false
	}

	userID, ok := session.Values[SessionUserID].(int64)
	return userID, ok
}

func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := m.Get(r)
	if err != nil && session == nil {
		return err
	}

	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1

	return session.Save(r, w)
}

// AddFlash queues a notice for the next rendered page. A session cleared
// earlier in the same request is revived so the notice survives.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	session, err := m.Get(r)
	if err != nil && session == nil {
		return err
	}

	if session.Options.MaxAge < 0 {
		session.Options.MaxAge = m.store.Options.MaxAge
	}
	session.AddFlash(models.Flash{Category: category, Message: message})
	return session.Save(r, w)
}

// Flashes drains the queued notices.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []models.Flash {
	session, err := m.Get(r)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		return nil
	}

	flashes := make([]models.Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(models.Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
