package postgres

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Constantes para os modos SSL permitidos no PostgreSQL
const (
	SSLDisable    = "disable"
	SSLRequire    = "require"
	SSLVerifyFull = "verify-full"
	SSLVerifyCA   = "verify-ca"
)

type Config struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	LogSQL       bool
}

// Open abre a conexão GORM e testa com ping. O chamador é dono do *gorm.DB
// e deve chamar Close no encerramento.
func Open(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	level := gormLogger.Warn
	if cfg.LogSQL {
		level = gormLogger.Info
	}

	db, err := gorm.Open(gormPostgres.Open(BuildDSN(cfg, log)), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("[DATABASE] erro ao abrir conexão GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("[DATABASE] erro ao obter *sql.DB do GORM: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("[DATABASE] erro ao testar conexão com o banco de dados: %w", err)
	}

	log.Info("[DATABASE] Conexão GORM com PostgreSQL estabelecida com sucesso.",
		zap.String("host", cfg.Host), zap.String("db", cfg.DBName))
	return db, nil
}

// Close encerra o pool de conexões.
func Close(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("[DATABASE] erro ao obter *sql.DB para fechamento", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("[DATABASE] erro ao fechar conexão com banco", zap.Error(err))
	}
}

// BuildDSN monta a string de conexão (Data Source Name) para o PostgreSQL.
func BuildDSN(cfg Config, log *zap.Logger) string {
	name := cfg.DBName
	if name == "" {
		name = "stockverse"
	}
	ssl := cfg.SSLMode
	if !isValidSSLMode(ssl) {
		if log != nil {
			log.Warn("[DATABASE] modo SSL inválido, usando o padrão",
				zap.String("ssl_mode", ssl), zap.String("default", SSLDisable))
		}
		ssl = SSLDisable
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, name, ssl,
	)
}

// isValidSSLMode verifica se a string de modo SSL fornecida é um valor válido.
func isValidSSLMode(mode string) bool {
	switch mode {
	case SSLDisable, SSLRequire, SSLVerifyFull, SSLVerifyCA:
		return true
	default:
		return false
	}
}
