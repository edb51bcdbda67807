// Package middleware содержит HTTP middleware для сервиса GOODFOOD.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/goodfood/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

const (
	sessionCookieName = "goodfood_session"
	sessionCookieTTL  = 30 * 24 * time.Hour
)

// SessionStore описывает хранилище сессий, используемое middleware.
type SessionStore interface {
	Create() (string, *session.Machine)
	Get(id string) (*session.Machine, bool)
}

// SessionMiddleware привязывает запрос к сессии по подписанному cookie.
// Если cookie нет, он повреждён или сессия уже удалена, создаётся новая
// сессия в начальном состоянии.
type SessionMiddleware struct {
	secretKey []byte
	store     SessionStore
}

// NewSessionMiddleware создаёт middleware с указанным секретным ключом.
func NewSessionMiddleware(secret string, store SessionStore) *SessionMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &SessionMiddleware{
		secretKey: key,
		store:     store,
	}
}

// Middleware находит или создаёт сессию и добавляет её автомат в контекст запроса.
func (s *SessionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			machine *session.Machine
			ok      bool
		)

		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if id, valid := s.parseCookie(cookie.Value); valid {
				machine, ok = s.store.Get(id)
			}
		}

		if !ok {
			var id string
			id, machine = s.store.Create()
			s.SetSessionCookie(w, id)
		}

		ctx := context.WithValue(r.Context(), sessionKey, machine)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetSessionCookie устанавливает cookie с подписанным идентификатором сессии.
func (s *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.sign(sessionID),
		Path:     "/",
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func (s *SessionMiddleware) sign(id string) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

func (s *SessionMiddleware) parseCookie(value string) (string, bool) {
	id, signature, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}

	_, expected, _ := strings.Cut(s.sign(id), ".")
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}

	return id, true
}

// GetSessionFromContext извлекает автомат сессии из контекста запроса.
func GetSessionFromContext(ctx context.Context) (*session.Machine, bool) {
	m, ok := ctx.Value(sessionKey).(*session.Machine)
	return m, ok && m != nil
}
