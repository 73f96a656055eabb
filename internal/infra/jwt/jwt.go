package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type AccessTokenClaims struct {
	Business string `json:"business"`
	jwt.RegisteredClaims
}

type TokenGenerator struct {
	secretKey    []byte
	issuer       string
	accessExpiry time.Duration
	now          func() time.Time
}

type Config struct {
	AccessSecret string
	Issuer       string
	AccessExpiry time.Duration
}

// New valida a configuração e cria o gerador. Chamado uma vez no bootstrap.
func New(cfg Config) (*TokenGenerator, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("segredo JWT não pode estar vazio")
	}
	if len(cfg.AccessSecret) < 32 {
		return nil, fmt.Errorf("segredo JWT deve ter ao menos 32 caracteres")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("emissor (issuer) JWT não pode estar vazio")
	}
	if cfg.AccessExpiry <= 0 {
		return nil, fmt.Errorf("expiração do token deve ser positiva")
	}

	return &TokenGenerator{
		secretKey:    []byte(cfg.AccessSecret),
		issuer:       cfg.Issuer,
		accessExpiry: cfg.AccessExpiry,
		now:          time.Now,
	}, nil
}

func (tg *TokenGenerator) GenerateAccessToken(userID uuid.UUID, business string) (string, time.Time, error) {
	now := tg.now().UTC()
	expirationTime := now.Add(tg.accessExpiry)

	claims := &AccessTokenClaims{
		Business: business,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tg.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tg.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("erro ao assinar o access token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// ParseAccessToken verifica assinatura, emissor e expiração e devolve o
// usuário do token.
func (tg *TokenGenerator) ParseAccessToken(tokenString string) (uuid.UUID, *AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return tg.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tg.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tg.now),
	)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: subject inválido", ErrInvalidToken)
	}
	return userID, claims, nil
}
