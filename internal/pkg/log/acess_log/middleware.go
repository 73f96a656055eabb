package acess_log

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockverse/internal/pkg/logger"
)

// Identity extrai do contexto da requisição quem fez a chamada. Retorna
// valores vazios para rotas públicas.
type Identity func(c *gin.Context) (business string, user *uuid.UUID, identifier string)

// Middleware grava uma linha de access_log por requisição, depois da resposta.
func (s *Service) Middleware(identity Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		entry := AccessLog{
			RequestID:    logger.RequestID(c),
			Method:       c.Request.Method,
			Path:         c.FullPath(),
			Host:         c.Request.Host,
			StatusCode:   c.Writer.Status(),
			IP:           c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			Referer:      c.Request.Referer(),
			ContentType:  c.ContentType(),
			UserLanguage: c.GetHeader("Accept-Language"),
			RequestTime:  start,
			LatencyMs:    float64(time.Since(start).Microseconds()) / 1000,
		}
		if entry.Path == "" {
			entry.Path = c.Request.URL.Path
		}
		if identity != nil {
			entry.Business, entry.UserUUID, entry.Identifier = identity(c)
		}

		s.logAsync(c.Request.Context(), entry)
	}
}
