package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockverse/internal/iam/access"
	iam "stockverse/internal/iam/domain/model"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/rest_err"
)

type Controller interface {
	Routes(routes gin.IRouter)
}

type controllerImpl struct {
	service Service
	mw      *middleware.Middleware
	audit   *auditoria_log.Service
}

func NewController(service Service, mw *middleware.Middleware, audit *auditoria_log.Service) Controller {
	return &controllerImpl{service: service, mw: mw, audit: audit}
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	group := routes.Group("/chat",
		ctrl.mw.SetContextAutorization(),
		ctrl.mw.RequireEntitlement(iam.ModuleChat),
	)
	{
		group.GET("/messages", ctrl.List)
		group.POST("/messages", ctrl.Post)
	}
}

// @Router /api/chat/messages [get]
func (ctrl *controllerImpl) List(c *gin.Context) {
	var req ListMessagesRequestDto
	if err := c.ShouldBindQuery(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("Parâmetros inválidos: since deve ser RFC3339."))
		return
	}
	a, _ := access.Get(c)
	messages, err := ctrl.service.List(c.Request.Context(), a, req.Since, req.Limit)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	resp := make([]MessageResponseDto, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, ToResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /api/chat/messages [post]
func (ctrl *controllerImpl) Post(c *gin.Context) {
	var req PostMessageRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	msg, err := ctrl.service.Post(c.Request.Context(), a, req.Body)
	if err != nil {
		restErr := toRestErr(err)
		ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "chat", "post", "Post", false, req, restErr))
		rest_err.Respond(c, restErr)
		return
	}
	c.JSON(http.StatusCreated, ToResponse(msg))
}

func toRestErr(err error) *rest_err.RestErr {
	if errors.Is(err, ErrInvalidInput) {
		return rest_err.NewBadRequestError(err.Error())
	}
	return rest_err.NewInternalServerError("Falha ao processar mensagens.", nil)
}
