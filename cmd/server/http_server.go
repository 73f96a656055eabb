package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"stockverse/internal/pkg/logger"
)

type Config struct {
	Port        int
	CORSOrigins []string
}

type HTTPServer struct {
	server *http.Server
	log    *zap.Logger
}

func NewHTTPServer(cfg Config, handler http.Handler, log *zap.Logger) *HTTPServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           withCORS(cfg.CORSOrigins, handler),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// withCORS libera as origens configuradas; sem origens o handler fica como está.
func withCORS(origins []string, handler http.Handler) http.Handler {
	if len(origins) == 0 {
		return handler
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders:   []string{logger.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler(handler)
}

func (s *HTTPServer) Start() error {
	s.log.Info("[SERVER] Iniciando servidor", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			s.log.Info("[SERVER] Servidor finalizado.")
			return nil
		}
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info("[SERVER] Encerrando servidor...")
	return s.server.Shutdown(ctx)
}
