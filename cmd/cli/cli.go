package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stockverse/cmd/bootstrap"
	"stockverse/internal/infra/database/admin"
	"stockverse/internal/infra/database/migrations"
	"stockverse/internal/infra/database/postgres"
	"stockverse/internal/pkg/log/acess_log"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/logger"
)

type options struct {
	Start             bool
	Stop              bool
	Seed              bool
	Update            bool
	DBCheck           bool
	DBDelete          bool
	DBBackup          bool
	BackupDestination string
	BackupSkipLogs    bool
	LogsRetentionDays int
}

func Execute() error {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		return err
	}

	if !opts.anyOperation() {
		log.Println("Nenhuma operação informada. Use --help para listar as opções disponíveis.")
		return nil
	}

	if opts.Stop {
		if err := stopServer(); err != nil {
			return fmt.Errorf("falha ao parar servidor: %w", err)
		}
		log.Println("Servidor finalizado com sucesso.")
		return nil
	}

	bootstrap.Environment()
	cfg := bootstrap.LoadConfig()
	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("falha ao criar logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	var (
		ctx        = context.Background()
		db         *gorm.DB
		manager    *migrations.Manager
		operations bool
	)

	if opts.requiresDatabase() {
		db, err = postgres.Open(cfg.Database, zlog)
		if err != nil {
			return err
		}
		defer postgres.Close(db, zlog)
		manager = migrations.NewManager(db, zlog)
	}

	if opts.Seed {
		applied, err := manager.ApplySeed(ctx)
		if err != nil {
			return fmt.Errorf("falha ao aplicar migrations de seed: %w", err)
		}
		zlog.Info("Migrations de seed aplicadas com sucesso.", zap.Int("arquivos", applied))
		operations = true
	}

	if opts.Update {
		applied, err := manager.ApplyUpdate(ctx)
		if err != nil {
			return fmt.Errorf("falha ao aplicar migrations de atualização: %w", err)
		}
		zlog.Info("Migrations de atualização aplicadas com sucesso.", zap.Int("arquivos", applied))
		operations = true
	}

	if opts.DBCheck {
		if db == nil {
			return fmt.Errorf("conexão com o banco de dados não inicializada")
		}
		status, err := admin.Check(db)
		if err != nil {
			return fmt.Errorf("falha ao checar banco de dados: %w", err)
		}
		zlog.Info("Banco de dados ativo.", zap.Int("tabelas", len(status.Tables)), zap.Strings("nomes", status.Tables))
		operations = true
	}

	if opts.DBDelete {
		if db == nil {
			return fmt.Errorf("conexão com o banco de dados não inicializada")
		}
		if err := admin.DeleteAll(db); err != nil {
			return fmt.Errorf("falha ao deletar tabelas do banco: %w", err)
		}
		zlog.Info("Todas as tabelas foram removidas com sucesso.")
		operations = true
	}

	if opts.DBBackup {
		if opts.BackupDestination == "" {
			return fmt.Errorf("para executar o backup informe o destino com --local=<caminho>")
		}

		dest := opts.BackupDestination
		if !filepath.IsAbs(dest) {
			if abs, err := filepath.Abs(dest); err == nil {
				dest = abs
			}
		}

		backup := admin.BackupOptions{Destination: dest, Database: cfg.Database}
		if opts.BackupSkipLogs {
			backup.SkipDataOf = []string{"access_log", "audit_log"}
		}
		if err := admin.Backup(ctx, backup); err != nil {
			return fmt.Errorf("falha ao executar backup: %w", err)
		}
		zlog.Info("Backup gerado.", zap.String("destino", dest))
		operations = true
	}

	if opts.LogsRetentionDays > 0 {
		before := time.Now().AddDate(0, 0, -opts.LogsRetentionDays)
		logsCfg := acess_log.Config{LogEnabled: true, Enabled: true}
		if _, err := acess_log.New(db, logsCfg, zlog).Purge(ctx, before); err != nil {
			return fmt.Errorf("falha ao limpar log de acesso: %w", err)
		}
		auditCfg := auditoria_log.Config{LogEnabled: true, Enabled: true}
		if _, err := auditoria_log.New(db, auditCfg, zlog).Purge(ctx, before); err != nil {
			return fmt.Errorf("falha ao limpar auditoria: %w", err)
		}
		operations = true
	}

	if opts.Start {
		if err := startServer(); err != nil {
			return fmt.Errorf("falha ao iniciar servidor: %w", err)
		}
		operations = true
	}

	if !operations {
		log.Println("Nenhuma operação executada. Use --help para listar as opções disponíveis.")
	}

	return nil
}

func parseOptions(args []string) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("stockverse", pflag.ContinueOnError)
	fs.BoolVar(&opts.Start, "start", false, "Inicia o servidor HTTP")
	fs.BoolVar(&opts.Stop, "stop", false, "Finaliza o servidor HTTP")
	fs.BoolVar(&opts.Seed, "migration-seed", false, "Aplica migrations de seed")
	fs.BoolVar(&opts.Update, "migration-update", false, "Aplica migrations de atualização")
	fs.BoolVar(&opts.DBCheck, "db-check", false, "Checa status do banco de dados")
	fs.BoolVar(&opts.DBDelete, "db-delete", false, "Remove todas as tabelas do banco de dados")
	fs.BoolVar(&opts.DBBackup, "db-backup", false, "Realiza backup do banco de dados")
	fs.StringVar(&opts.BackupDestination, "local", "", "Diretório de destino para o backup do banco")
	fs.BoolVar(&opts.BackupSkipLogs, "skip-logs", false, "No backup, exporta só a estrutura das tabelas de log")
	fs.IntVar(&opts.LogsRetentionDays, "logs-retention", 0, "Remove access_log e audit_log com mais de N dias")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	return opts, nil
}

func (o options) anyOperation() bool {
	return o.Start || o.Stop || o.Seed || o.Update || o.DBCheck || o.DBDelete || o.DBBackup || o.LogsRetentionDays > 0
}

func (o options) requiresDatabase() bool {
	return o.Seed || o.Update || o.DBCheck || o.DBDelete || o.LogsRetentionDays > 0
}
