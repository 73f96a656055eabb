package notebook

import (
	"gorm.io/gorm"

	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/log/auditoria_log"
)

type Module struct {
	Repository Repository
	Service    Service
	Controller Controller
}

func New(db *gorm.DB, mw *middleware.Middleware, audit *auditoria_log.Service) *Module {
	repository := NewRepository(db)
	service := NewService(repository)
	return &Module{
		Repository: repository,
		Service:    service,
		Controller: NewController(service, mw, audit),
	}
}
