// Package session keeps the signed-in user and flash notices in a signed cookie.
package session

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"myblog/app/models"
)

// Notice kinds
const (
	Success = "success"
	Error   = "error"
)

const (
	keyUserID     = "user_id"
	keyUserName   = "user_name"
	keyUserGender = "user_gender"
	keyUserBio    = "user_bio"
)

type contextKey struct{}

// Manager loads and saves sessions through a gorilla CookieStore
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewManager creates a Manager. The secret signs every cookie. Secure cookies
// are only sent back over HTTPS, so it stays off behind a plain listener.
func NewManager(name string, secret []byte, maxAge int, secure bool, log *zap.Logger) *Manager {
	store := sessions.NewCookieStore(secret)
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode

	return &Manager{store: store, name: name, log: log}
}

// Store exposes the underlying cookie store
func (m *Manager) Store() sessions.Store {
	return m.store
}

// Name returns the cookie name
func (m *Manager) Name() string {
	return m.name
}

// Middleware attaches the request's Session to its context. A cookie that
// fails verification is dropped and replaced by an empty session.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := m.store.Get(r, m.name)
		if err != nil {
			m.log.Debug("discarding session cookie", zap.Error(err))
		}
		s := &Session{raw: raw, store: m.store, r: r}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, s)))
	})
}

// FromContext returns the session loaded by Middleware. Without one it
// returns an empty session that is never persisted.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return &Session{raw: sessions.NewSession(nil, "")}
}

// Session is the per-request view of a visitor's cookie
type Session struct {
	raw   *sessions.Session
	store sessions.Store
	r     *http.Request
}

// Notices holds the flash messages consumed for one rendered page
type Notices struct {
	Success []string
	Error   []string
}

// Empty reports whether there is nothing to show
func (n Notices) Empty() bool {
	return len(n.Success) == 0 && len(n.Error) == 0
}

// User returns the signed-in user's profile, or nil for a guest
func (s *Session) User() *models.Author {
	id, _ := s.raw.Values[keyUserID].(string)
	if id == "" {
		return nil
	}
	name, _ := s.raw.Values[keyUserName].(string)
	gender, _ := s.raw.Values[keyUserGender].(string)
	bio, _ := s.raw.Values[keyUserBio].(string)
	return &models.Author{ID: id, Name: name, Gender: gender, Bio: bio}
}

// SignIn records user as the session identity
func (s *Session) SignIn(user *models.User) {
	s.raw.Values[keyUserID] = user.ID
	s.raw.Values[keyUserName] = user.Name
	s.raw.Values[keyUserGender] = user.Gender
	s.raw.Values[keyUserBio] = user.Bio
}

// SignOut clears the identity. Pending notices survive.
func (s *Session) SignOut() {
	for _, k := range []string{keyUserID, keyUserName, keyUserGender, keyUserBio} {
		delete(s.raw.Values, k)
	}
}

// Flash queues a notice for the next rendered page
func (s *Session) Flash(kind, message string) {
	s.raw.AddFlash(message, flashKey(kind))
}

// Notices consumes the queued notices
func (s *Session) Notices() Notices {
	return Notices{
		Success: flashes(s.raw, Success),
		Error:   flashes(s.raw, Error),
	}
}

// Save writes the session cookie. It must run before the response header is written.
func (s *Session) Save(w http.ResponseWriter) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.r, w, s.raw)
}

func flashKey(kind string) string {
	return "_flash_" + kind
}

func flashes(raw *sessions.Session, kind string) []string {
	var out []string
	for _, f := range raw.Flashes(flashKey(kind)) {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
