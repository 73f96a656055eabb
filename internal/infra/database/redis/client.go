package redis

import (
	"context"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// Open conecta e testa o Redis. Com Enabled=false devolve (nil, nil) e o
// chamador usa as alternativas em memória.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (*goRedis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("[REDIS] endereço não configurado")
	}

	client := goRedis.NewClient(&goRedis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[REDIS] falha no ping em %s: %w", cfg.Addr, err)
	}

	if log != nil {
		log.Info("[REDIS] conexão estabelecida", zap.String("addr", cfg.Addr))
	}
	return client, nil
}
