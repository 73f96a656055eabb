package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/model"
	"stockverse/internal/infra/jwt"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/rest_err"
)

// TokenParser verifica o JWT antes da consulta ao banco.
type TokenParser interface {
	ParseAccessToken(token string) (uuid.UUID, *jwt.AccessTokenClaims, error)
}

// SessionReader lê o token do cookie de sessão.
type SessionReader interface {
	Token(c *gin.Context) string
}

type Middleware struct {
	repository Repository
	tokens     TokenParser
	sessions   SessionReader
	now        func() time.Time
}

func NewMiddleware(repository Repository, tokens TokenParser, sessions SessionReader) *Middleware {
	return &Middleware{
		repository: repository,
		tokens:     tokens,
		sessions:   sessions,
		now:        time.Now,
	}
}

// SetContextAutorization autentica a requisição e grava o access.Access no
// contexto. O token vem do cookie de sessão ou do header Authorization.
func (mw *Middleware) SetContextAutorization() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := mw.requestToken(c)
		if token == "" {
			rest_err.Abort(c, rest_err.NewForbiddenError("Token ausente ou inválido."))
			return
		}

		userID, _, err := mw.tokens.ParseAccessToken(token)
		if err != nil {
			rest_err.Abort(c, rest_err.NewForbiddenError("Token inválido ou expirado."))
			return
		}

		ctx := c.Request.Context()
		login, err := mw.repository.GetLogin(ctx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				rest_err.Abort(c, rest_err.NewForbiddenError("Token de acesso não encontrado."))
				return
			}
			logger.FromGin(c).Error("[AUTH] falha ao validar token", zap.Error(err))
			rest_err.Abort(c, rest_err.NewForbiddenError("Falha ao validar token de acesso."))
			return
		}

		now := mw.now().UTC()
		if login.AcessToken.UserUUID != userID {
			rest_err.Abort(c, rest_err.NewForbiddenError("Token não associado a nenhum usuário válido."))
			return
		}
		if now.After(login.AcessToken.Expiry) {
			rest_err.Abort(c, rest_err.NewForbiddenError("Token expirado. Efetue login novamente."))
			return
		}
		if !login.User.Live {
			rest_err.Abort(c, rest_err.NewForbiddenError("Usuário desativado."))
			return
		}

		owner := &login.User
		if login.User.Role != model.RoleAdmin {
			owner, err = mw.repository.GetOwner(ctx, login.User.Business)
			if err != nil {
				logger.FromGin(c).Error("[AUTH] falha ao buscar dono da empresa", zap.Error(err))
				rest_err.Abort(c, rest_err.NewInternalServerError("Falha ao resolver assinatura.", nil))
				return
			}
		}

		a := access.Resolve(login.User, owner, now)
		a.Token = token
		access.Set(c, a)

		logger.Attach(c, logger.FromGin(c).With(
			zap.String("business", a.Business),
			zap.String("user", a.Email),
		))

		c.Next()
	}
}

// AuthorizeRole exige um dos papéis informados.
func (mw *Middleware) AuthorizeRole(requiredRoles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := access.Get(c)
		if !ok {
			rest_err.Abort(c, rest_err.NewForbiddenError("Usuário não autenticado."))
			return
		}

		if !a.HasRole(requiredRoles...) {
			names := make([]string, len(requiredRoles))
			for i, role := range requiredRoles {
				names[i] = string(role)
			}
			rest_err.Abort(c, rest_err.NewForbiddenError(fmt.Sprintf(
				"Acesso negado. É necessário possuir uma das permissões: %v.", names,
			)))
			return
		}

		c.Next()
	}
}

// RequireEntitlement bloqueia módulos fora do plano da empresa.
func (mw *Middleware) RequireEntitlement(module model.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := access.Get(c)
		if !ok {
			rest_err.Abort(c, rest_err.NewForbiddenError("Usuário não autenticado."))
			return
		}
		if !a.Has(module) {
			rest_err.Abort(c, rest_err.NewPlanRequiredError(PlanUpgradeMessage(module)))
			return
		}
		c.Next()
	}
}

// PlanUpgradeMessage é a mensagem exibida quando o plano não inclui o módulo.
func PlanUpgradeMessage(module model.Module) string {
	return fmt.Sprintf("Your current plan does not include %s. Upgrade to Pro or Enterprise to unlock it.", module)
}

func (mw *Middleware) requestToken(c *gin.Context) string {
	if mw.sessions != nil {
		if token := mw.sessions.Token(c); token != "" {
			return token
		}
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
