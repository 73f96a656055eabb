package acess_log

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu    sync.Mutex
	saved chan AccessLog
}

func (m *memRepo) Save(_ context.Context, entry AccessLog) error {
	m.saved <- entry
	return nil
}

func (m *memRepo) Purge(context.Context, time.Time) (int64, error) { return 0, nil }

func TestMiddlewareRecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &memRepo{saved: make(chan AccessLog, 1)}
	svc := NewService(repo, nil)

	userID := uuid.New()
	r := gin.New()
	r.Use(svc.Middleware(func(c *gin.Context) (string, *uuid.UUID, string) {
		return "acme", &userID, "ana@acme.io"
	}))
	r.GET("/api/stocks/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stocks/42", nil)
	req.Header.Set("Accept-Language", "pt-BR")
	r.ServeHTTP(w, req)

	select {
	case entry := <-repo.saved:
		assert.Equal(t, "/api/stocks/:id", entry.Path)
		assert.Equal(t, http.StatusTeapot, entry.StatusCode)
		assert.Equal(t, "acme", entry.Business)
		require.NotNil(t, entry.UserUUID)
		assert.Equal(t, userID, *entry.UserUUID)
		assert.Equal(t, "pt-BR", entry.UserLanguage)
	case <-time.After(time.Second):
		t.Fatal("access log entry was not saved")
	}
}

func TestNilServiceMiddlewarePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var svc *Service
	r := gin.New()
	r.Use(svc.Middleware(nil))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
}
