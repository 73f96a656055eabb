package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok/v2"
	"gorm.io/gorm"

	"stockverse/cmd/server"
	"stockverse/cmd/server/routes"
	"stockverse/internal/automation"
	"stockverse/internal/iam/access"
	"stockverse/internal/iam/application/auth"
	"stockverse/internal/iam/domain/business"
	"stockverse/internal/iam/domain/subscription"
	"stockverse/internal/iam/domain/user"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/iam/session"
	"stockverse/internal/infra/database/postgres"
	"stockverse/internal/infra/database/redis"
	"stockverse/internal/infra/jwt"
	"stockverse/internal/infra/lock"
	"stockverse/internal/infra/paypal"
	"stockverse/internal/office/chat"
	"stockverse/internal/office/notebook"
	"stockverse/internal/office/personnel"
	"stockverse/internal/office/stock"
	"stockverse/internal/office/task"
	"stockverse/internal/order"
	"stockverse/internal/pkg/log/acess_log"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/metrics"
	"stockverse/internal/pkg/util"
	"stockverse/internal/pkg/webhook"
)

// Application armazena as dependências centrais da aplicação.
type Application struct {
	cfg    Config
	log    *zap.Logger
	db     *gorm.DB
	redis  *goRedis.Client
	server *server.HTTPServer
}

// New prepara a aplicação (config, db, di) e retorna a instância.
func New(ctx context.Context) (*Application, error) {
	Environment()
	cfg := LoadConfig()

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("[BOOTSTRAP-LOG] Falha ao criar logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	log.Info("[BOOTSTRAP-ENV] Configuração de ambiente carregada.", zap.String("env", cfg.App.Env))

	tokens, err := jwt.New(cfg.JWT)
	if err != nil {
		// a aplicação não sobe sem o gerador de token
		return nil, fmt.Errorf("[BOOTSTRAP-TOKEN] Falha ao criar gerador de token: %w", err)
	}
	sessions, err := session.New(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("[BOOTSTRAP-SESSION] Falha ao criar store de sessão: %w", err)
	}

	mail, err := mailer.New(ctx, cfg.Mail)
	if err != nil {
		log.Warn("[BOOTSTRAP-MAILER] Falha ao iniciar sistema de emails", zap.Error(err))
	} else {
		log.Info("[BOOTSTRAP-MAILER] Sistema de emails pronto.", zap.String("provider", cfg.Mail.Provider))
	}

	db, err := postgres.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	app := &Application{cfg: cfg, log: log, db: db}

	locker := lock.NewLocal()
	rdb, err := redis.Open(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	if rdb != nil {
		app.redis = rdb
		locker = lock.NewRedis(rdb, cfg.App.Name+":lock:")
	} else {
		log.Info("[BOOTSTRAP-LOCK] Redis desligado, usando lock em memória.")
	}

	payments := paypal.New(cfg.PayPal)
	if !payments.Configured() {
		log.Warn("[BOOTSTRAP-PAYPAL] Credenciais ausentes; pagamentos ficarão indisponíveis.")
	}
	notifier := webhook.New(cfg.Webhooks, log)

	audit := auditoria_log.New(db, auditoria_log.Config{LogEnabled: cfg.Logs.Enabled, Enabled: cfg.Logs.Audit}, log)
	accessLog := acess_log.New(db, acess_log.Config{LogEnabled: cfg.Logs.Enabled, Enabled: cfg.Logs.Access}, log)

	mw := middleware.NewMiddleware(middleware.NewRepository(db), tokens, sessions)
	passwords := util.NewPassword()

	businessModule := business.New(db, mw, audit)
	userModule := user.New(db, passwords, locker, mw, audit)
	authModule := auth.New(auth.Deps{
		DB:        db,
		Users:     userModule.Service,
		Passwords: passwords,
		Tokens:    tokens,
		Mail:      mail,
		Sessions:  sessions,
		Limiter:   middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		Audit:     audit,
	}, mw)
	subscriptionModule := subscription.New(db, payments, mw, audit)

	automationModule := automation.New(db, mail, notifier, businessModule.Service, mw, audit)
	orderModule := order.New(db, order.Options{
		Gateway:  payments,
		Mail:     mail,
		Notifier: notifier,
		Webhooks: businessModule.Service,
		Currency: cfg.App.Currency,
	}, mw, audit)
	log.Info("[BOOTSTRAP-DI] Contêiner de dependências inicializado.")

	router := routes.SetupRouter(routes.Deps{
		Env:       cfg.App.Env,
		Log:       log,
		Metrics:   metrics.NewHTTPMetrics(cfg.App.Name),
		AccessLog: accessLog,
		Identity:  access.Identity,
		Controllers: []routes.Controller{
			authModule.Controller,
			businessModule.Controller,
			userModule.Controller,
			subscriptionModule.Controller,
			stock.New(db, mw, audit).Controller,
			task.New(db, mw, audit).Controller,
			personnel.New(db, mw, audit).Controller,
			chat.New(db, mw, audit).Controller,
			notebook.New(db, mw, audit).Controller,
			automationModule.Controller,
			orderModule.Controller,
		},
	})
	app.server = server.NewHTTPServer(server.Config{
		Port:        cfg.App.Port,
		CORSOrigins: cfg.App.CORSOrigins,
	}, router, log)
	return app, nil
}

// Close libera banco, redis e o buffer do logger.
func (a *Application) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("[REDIS] erro ao fechar conexão", zap.Error(err))
		}
	}
	postgres.Close(a.db, a.log)
	_ = a.log.Sync()
}

func startNgrokForward(ctx context.Context, log *zap.Logger, token string, port int) error {
	agent, err := ngrok.NewAgent(
		ngrok.WithAuthtoken(token),
		ngrok.WithAutoConnect(true),
	)
	if err != nil {
		return fmt.Errorf("erro criando ngrok Agent: %w", err)
	}

	upstream := ngrok.WithUpstream(fmt.Sprintf("http://127.0.0.1:%d", port))
	endpoint, err := agent.Forward(ctx, upstream)
	if err != nil {
		var ngErr ngrok.Error
		if errors.As(err, &ngErr) {
			log.Error("[NGROK] erro ao criar forward", zap.String("code", ngErr.Code()), zap.Error(ngErr))
		}
		return fmt.Errorf("erro iniciando ngrok Forward: %w", err)
	}

	log.Info("[NGROK] Endpoint online", zap.Any("url", endpoint.URL()))

	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := endpoint.CloseWithContext(closeCtx); err != nil {
		return fmt.Errorf("erro ao fechar endpoint ngrok: %w", err)
	}
	if err := agent.Disconnect(); err != nil {
		return fmt.Errorf("erro ao desconectar ngrok Agent: %w", err)
	}
	return nil
}

func (a *Application) Start(ctx context.Context) error {
	a.log.Info("[BOOTSTRAP] Iniciando servidor", zap.String("env", a.cfg.App.Env))

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	if a.cfg.Ngrok.Live {
		if a.cfg.Ngrok.Token == "" {
			a.log.Warn("[NGROK] test.ngrok.live=true mas test.ngrok.token está vazio; ngrok NÃO será iniciado")
		} else {
			go func() {
				if err := startNgrokForward(ctx, a.log, a.cfg.Ngrok.Token, a.cfg.App.Port); err != nil {
					a.log.Error("[NGROK] erro", zap.Error(err))
				}
			}()
		}
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("falha ao encerrar servidor: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
