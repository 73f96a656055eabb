package admin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"stockverse/internal/infra/database/postgres"
)

type Status struct {
	Tables    []string
	CheckedAt time.Time
}

// Check testa a conexão e lista as tabelas do schema atual.
func Check(db *gorm.DB) (Status, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return Status{}, fmt.Errorf("falha ao obter conexão subjacente: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return Status{}, fmt.Errorf("banco de dados indisponível: %w", err)
	}

	var tables []string
	err = db.Raw(`
SELECT tablename
FROM pg_catalog.pg_tables
WHERE schemaname = current_schema()
ORDER BY tablename;
        `).Scan(&tables).Error
	if err != nil {
		return Status{}, fmt.Errorf("falha ao listar tabelas: %w", err)
	}

	return Status{Tables: tables, CheckedAt: time.Now()}, nil
}

// DeleteAll remove todas as tabelas do schema atual e o tipo user_role.
func DeleteAll(db *gorm.DB) error {
	var tables []string
	if err := db.Raw(`
SELECT tablename
FROM pg_catalog.pg_tables
WHERE schemaname = current_schema();
        `).Scan(&tables).Error; err != nil {
		return fmt.Errorf("falha ao buscar tabelas para exclusão: %w", err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS \"%s\" CASCADE", table)
		if err := db.Exec(query).Error; err != nil {
			return fmt.Errorf("falha ao remover tabela %s: %w", table, err)
		}
	}
	if err := db.Exec("DROP TYPE IF EXISTS user_role").Error; err != nil {
		return fmt.Errorf("falha ao remover tipo user_role: %w", err)
	}
	return nil
}

type BackupOptions struct {
	Destination string
	Database    postgres.Config
	// SkipDataOf exporta só a estrutura dessas tabelas (ex.: logs).
	SkipDataOf []string
}

// Backup executa pg_dump com as credenciais da configuração; ctx cancela o
// processo.
func Backup(ctx context.Context, opts BackupOptions) error {
	if opts.Destination == "" {
		return errors.New("destino do backup não informado (use --local=<caminho>)")
	}

	info := opts.Database
	if info.DBName == "" {
		return errors.New("nome do banco de dados não configurado")
	}

	destination := normalizeDestination(opts.Destination)
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("falha ao criar diretório do backup: %w", err)
	}

	cmd := exec.CommandContext(ctx, "pg_dump", dumpArgs(info, destination, opts.SkipDataOf)...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", info.Password))

	if output, err := cmd.CombinedOutput(); err != nil {
		if len(output) > 0 {
			return fmt.Errorf("pg_dump falhou: %w - %s", err, strings.TrimSpace(string(output)))
		}
		return fmt.Errorf("pg_dump falhou: %w", err)
	}

	return nil
}

func dumpArgs(info postgres.Config, destination string, skipData []string) []string {
	args := []string{
		"-h", info.Host,
		"-p", info.Port,
		"-U", info.User,
		"-d", info.DBName,
		"-F", detectFormat(destination),
		"-f", destination,
		"--no-owner",
	}
	for _, table := range skipData {
		args = append(args, "--exclude-table-data="+table)
	}
	return args
}

func normalizeDestination(path string) string {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		cwd, err := os.Getwd()
		if err == nil {
			return filepath.Join(cwd, clean)
		}
	}
	return clean
}

func detectFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".sql":
		return "p"
	case ".tar":
		return "t"
	default:
		return "c"
	}
}
