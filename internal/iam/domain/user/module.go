package user

import (
	"gorm.io/gorm"

	"stockverse/internal/iam/middleware"
	"stockverse/internal/infra/lock"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/util"
)

type Module struct {
	Repository Repository
	Service    Service
	Controller Controller
}

func New(db *gorm.DB, passwords util.Password, locker lock.Locker, mw *middleware.Middleware, audit *auditoria_log.Service) *Module {
	repository := NewRepository(db)
	service := NewService(repository, passwords, locker)
	return &Module{
		Repository: repository,
		Service:    service,
		Controller: NewController(service, mw, audit),
	}
}
