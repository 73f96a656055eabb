package business

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/model"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/rest_err"
)

type Controller interface {
	Routes(routes gin.IRouter)
	Read(c *gin.Context)
	Update(c *gin.Context)
}

type controllerImpl struct {
	service Service
	mw      *middleware.Middleware
	audit   *auditoria_log.Service
}

func NewController(service Service, mw *middleware.Middleware, audit *auditoria_log.Service) Controller {
	return &controllerImpl{service: service, mw: mw, audit: audit}
}

func (ctrl *controllerImpl) logAudit(c *gin.Context, action, function string, success bool, input, output interface{}) {
	ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "business", action, function, success, input, output))
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	group := routes.Group("/business", ctrl.mw.SetContextAutorization())
	{
		group.GET("", ctrl.Read)
		group.PATCH("", ctrl.mw.AuthorizeRole(model.RoleAdmin), ctrl.Update)
	}
}

// Read devolve o perfil da empresa do usuário logado.
// @Router /api/business [get]
func (ctrl *controllerImpl) Read(c *gin.Context) {
	a, _ := access.Get(c)

	b, err := ctrl.service.Get(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	c.JSON(http.StatusOK, ToResponse(b))
}

// Update altera nome, contato e webhooks da empresa. Apenas Admin.
// @Router /api/business [patch]
func (ctrl *controllerImpl) Update(c *gin.Context) {
	var req UpdateBusinessRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}

	a, _ := access.Get(c)
	updated, err := ctrl.service.Update(c.Request.Context(), a, UpdateInput{
		DisplayName: req.DisplayName,
		Address:     req.Address,
		Phone:       req.Phone,
		WebhookURLs: req.WebhookURLs,
	})
	if err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, "update", "Update", false, req, restErr)
		rest_err.Respond(c, restErr)
		return
	}

	resp := ToResponse(updated)
	ctrl.logAudit(c, "update", "Update", true, req, resp)
	c.JSON(http.StatusOK, resp)
}

func toRestErr(err error) *rest_err.RestErr {
	switch {
	case errors.Is(err, ErrNotFound):
		return rest_err.NewNotFoundError(ErrNotFound.Error())
	case errors.Is(err, ErrForbidden):
		return rest_err.NewForbiddenError(err.Error())
	case errors.Is(err, ErrInvalidWebhook):
		return rest_err.NewBadRequestValidationError(ErrInvalidWebhook.Error(), []rest_err.Causes{
			rest_err.NewCause("webhookUrls", err.Error()),
		})
	case errors.Is(err, ErrTooManyWebhooks), errors.Is(err, ErrInvalidInput):
		return rest_err.NewBadRequestError(err.Error())
	default:
		return rest_err.NewInternalServerError("Falha ao processar empresa.", nil)
	}
}
