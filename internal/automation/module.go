package automation

import (
	"gorm.io/gorm"

	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/mailer"
)

type Module struct {
	Repository Repository
	Service    Service
	Controller Controller
}

func New(db *gorm.DB, mail mailer.Service, notifier Notifier, webhooks WebhookDirectory, mw *middleware.Middleware, audit *auditoria_log.Service) *Module {
	repository := NewRepository(db)
	service := NewService(repository, mail, notifier, webhooks)
	return &Module{
		Repository: repository,
		Service:    service,
		Controller: NewController(service, mw, audit),
	}
}
