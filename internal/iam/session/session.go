// Package session guarda o access token num cookie HTTP-only assinado.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	SessionName    = "stockverse_session"
	SessionUserKey = "user_token"
)

type Config struct {
	AuthKey  string
	Secure   bool
	Domain   string
	SameSite http.SameSite
}

type Store struct {
	store *sessions.CookieStore
}

func New(cfg Config) (*Store, error) {
	if len(cfg.AuthKey) < 32 {
		return nil, errors.New("session auth key deve ter ao menos 32 caracteres")
	}
	store := sessions.NewCookieStore([]byte(cfg.AuthKey))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	}
	if store.Options.SameSite == 0 {
		store.Options.SameSite = http.SameSiteLaxMode
	}
	return &Store{store: store}, nil
}

// Save grava o token com validade até expire.
func (s *Store) Save(c *gin.Context, token string, expire time.Time) error {
	sess, _ := s.store.Get(c.Request, SessionName)
	sess.Values[SessionUserKey] = token
	maxAge := int(time.Until(expire).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	sess.Options.MaxAge = maxAge
	return sess.Save(c.Request, c.Writer)
}

// Token lê o token do cookie; vazio quando não há sessão válida.
func (s *Store) Token(c *gin.Context) string {
	sess, err := s.store.Get(c.Request, SessionName)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[SessionUserKey].(string)
	return token
}

// Clear expira o cookie.
func (s *Store) Clear(c *gin.Context) error {
	sess, _ := s.store.Get(c.Request, SessionName)
	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}
