package acess_log

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config usada somente no New()
type Config struct {
	LogEnabled bool
	Enabled    bool
}

// Service grava o log de acesso. Um *Service nil descarta os registros.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// New devolve nil quando o log de acesso está desligado.
func New(db *gorm.DB, cfg Config, log *zap.Logger) *Service {
	if !cfg.LogEnabled || !cfg.Enabled || db == nil {
		return nil
	}
	return NewService(NewRepository(db), log)
}

func (s *Service) Log(ctx context.Context, entry AccessLog) error {
	if s == nil {
		return nil
	}
	return s.repo.Save(ctx, entry)
}

func (s *Service) logAsync(ctx context.Context, entry AccessLog) {
	ctxDetached := context.WithoutCancel(ctx)
	go func() {
		if err := s.Log(ctxDetached, entry); err != nil {
			s.log.Warn("[ACCESS] erro ao gravar log de acesso", zap.String("path", entry.Path), zap.Error(err))
		}
	}()
}

// Purge remove registros anteriores a before. Com o log desligado não faz nada.
func (s *Service) Purge(ctx context.Context, before time.Time) (int64, error) {
	if s == nil {
		return 0, nil
	}
	removed, err := s.repo.Purge(ctx, before)
	if err != nil {
		return 0, err
	}
	s.log.Info("[ACCESS] registros antigos removidos", zap.Int64("removidos", removed), zap.Time("antes_de", before))
	return removed, nil
}
