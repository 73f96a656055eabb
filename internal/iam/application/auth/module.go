package auth

import (
	"gorm.io/gorm"

	"stockverse/internal/iam/application/auth/cache"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/util"
)

type Module struct {
	Repository Repository
	Service    Service
	Controller Controller
}

type Deps struct {
	DB        *gorm.DB
	Users     UserDirectory
	Passwords util.Password
	Tokens    TokenIssuer
	Mail      mailer.Service
	Sessions  SessionWriter
	Limiter   *middleware.IPRateLimiter
	Audit     *auditoria_log.Service
}

func New(d Deps, mw *middleware.Middleware) *Module {
	repository := NewRepository(d.DB)
	service := NewService(repository, d.Users, d.Passwords, d.Tokens, cache.NewOTPStore(), d.Mail)
	return &Module{
		Repository: repository,
		Service:    service,
		Controller: NewController(service, d.Sessions, mw, d.Limiter, d.Audit),
	}
}
