package cache

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// OTPTTL é a validade de um código OTP.
const OTPTTL = 5 * time.Minute

// OTPStore guarda os códigos OTP em memória, chaveados pelo email.
type OTPStore struct {
	c *cache.Cache
}

func NewOTPStore() *OTPStore {
	return &OTPStore{c: cache.New(OTPTTL, 10*time.Minute)}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Save grava o código somente se ainda não existir um válido para o email.
func (s *OTPStore) Save(email, code string) bool {
	return s.c.Add(key(email), code, OTPTTL) == nil
}

func (s *OTPStore) Get(email string) (string, bool) {
	v, found := s.c.Get(key(email))
	if !found {
		return "", false
	}
	return v.(string), true
}

func (s *OTPStore) Delete(email string) {
	s.c.Delete(key(email))
}
