package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"blogfront/app/repositories"
	"blogfront/app/services"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"
)

type sessionKey struct{}

// SessionID returns the session id resolved by Sessions, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithSessionID returns a context carrying id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionManager issues signed session cookies and makes sure every
// request has a stored session behind it.
type SessionManager struct {
	Repo       repositories.SessionRepository
	CookieName string
	TTL        time.Duration
	Options    services.ListOptions
	Logger     logrus.FieldLogger
	Now        func() time.Time

	secret []byte
}

// NewSessionManager creates a manager. An empty secret is replaced by
// random bytes, which invalidates cookies across restarts.
func NewSessionManager(repo repositories.SessionRepository, cookieName string, secret string, ttl time.Duration, opts services.ListOptions, logger logrus.FieldLogger) (*SessionManager, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &SessionManager{
		Repo:       repo,
		CookieName: cookieName,
		TTL:        ttl,
		Options:    opts,
		Logger:     logger,
		Now:        time.Now,
		secret:     key,
	}, nil
}

func (m *SessionManager) sign(id string) string {
	h := sha3.New256()
	h.Write(m.secret)
	h.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// CookieValue returns the signed cookie value for id.
func (m *SessionManager) CookieValue(id string) string {
	return id + "." + m.sign(id)
}

// Verify extracts the session id from a cookie value.
func (m *SessionManager) Verify(value string) (string, bool) {
	id, mac, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	want := m.sign(id)
	if subtle.ConstantTimeCompare([]byte(mac), []byte(want)) != 1 {
		return "", false
	}
	return id, true
}

func (m *SessionManager) resolve(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.CookieName)
	if err != nil {
		return "", false
	}
	id, ok := m.Verify(c.Value)
	if !ok {
		return "", false
	}
	if _, err := m.Repo.Get(id); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			m.Logger.WithError(err).Error("load session")
		}
		return "", false
	}
	return id, true
}

func (m *SessionManager) start(w http.ResponseWriter) (string, error) {
	id := uuid.NewString()
	if err := m.Repo.Create(services.NewSession(id, m.Options, m.Now())); err != nil {
		return "", err
	}
	m.setCookie(w, id)
	return id, nil
}

// setCookie (re)issues the session cookie. It is sent on every request
// so its lifetime slides along with the stored session's TTL.
func (m *SessionManager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    m.CookieValue(id),
		Path:     "/",
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware attaches the visitor's session id to the request context,
// starting a new session when the cookie is missing, forged or expired.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.resolve(r)
		if ok {
			m.setCookie(w, id)
		} else {
			var err error
			id, err = m.start(w)
			if err != nil {
				m.Logger.WithError(err).Error("start session")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}
