package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "0123456789abcdef0123456789abcdef"

func TestSaveThenReadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := New(Config{AuthKey: key})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	require.NoError(t, store.Save(c, "jwt-token", time.Now().Add(time.Hour)))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	c2.Request.AddCookie(cookies[0])
	assert.Equal(t, "jwt-token", store.Token(c2))

	require.NoError(t, store.Clear(c2))
	cleared := w2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestTokenWithoutCookie(t *testing.T) {
	store, err := New(Config{AuthKey: key})
	require.NoError(t, err)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, store.Token(c))
}

func TestTamperedCookieIsIgnored(t *testing.T) {
	store, err := New(Config{AuthKey: key})
	require.NoError(t, err)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: SessionName, Value: "forged"})
	assert.Empty(t, store.Token(c))
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New(Config{AuthKey: "short"})
	assert.Error(t, err)
}
