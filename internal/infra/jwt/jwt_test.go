package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestGenerator(t *testing.T) *TokenGenerator {
	t.Helper()
	tg, err := New(Config{AccessSecret: testSecret, Issuer: "stockverse", AccessExpiry: time.Hour})
	require.NoError(t, err)
	return tg
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Issuer: "x", AccessExpiry: time.Hour})
	assert.Error(t, err)
	_, err = New(Config{AccessSecret: "short", Issuer: "x", AccessExpiry: time.Hour})
	assert.Error(t, err)
	_, err = New(Config{AccessSecret: testSecret, AccessExpiry: time.Hour})
	assert.Error(t, err)
	_, err = New(Config{AccessSecret: testSecret, Issuer: "x"})
	assert.Error(t, err)
}

func TestGenerateAndParse(t *testing.T) {
	tg := newTestGenerator(t)
	userID := uuid.New()

	token, exp, err := tg.GenerateAccessToken(userID, "acme")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	gotID, claims, err := tg.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "acme", claims.Business)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tg := newTestGenerator(t)
	tg.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tg.GenerateAccessToken(uuid.New(), "acme")
	require.NoError(t, err)

	tg.now = time.Now
	_, _, err = tg.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	tg := newTestGenerator(t)
	other, err := New(Config{AccessSecret: "ffffffffffffffffffffffffffffffff", Issuer: "stockverse", AccessExpiry: time.Hour})
	require.NoError(t, err)

	token, _, err := other.GenerateAccessToken(uuid.New(), "acme")
	require.NoError(t, err)
	_, _, err = tg.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	tg := newTestGenerator(t)
	claims := &AccessTokenClaims{
		Business: "acme",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "stockverse",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = tg.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
