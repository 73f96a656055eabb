package notebook

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

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

func (ctrl *controllerImpl) logAudit(c *gin.Context, action, function string, success bool, input, output interface{}) {
	ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "notebook", action, function, success, input, output))
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	group := routes.Group("/notes",
		ctrl.mw.SetContextAutorization(),
		ctrl.mw.RequireEntitlement(iam.ModuleNotebook),
	)
	{
		group.GET("", ctrl.List)
		group.POST("", ctrl.Create)
		group.PATCH("/:uuid", ctrl.Update)
		group.DELETE("/:uuid", ctrl.Delete)
	}
}

// @Router /api/notes [get]
func (ctrl *controllerImpl) List(c *gin.Context) {
	a, _ := access.Get(c)
	notes, err := ctrl.service.List(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	resp := make([]NoteResponseDto, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, ToResponse(n))
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /api/notes [post]
func (ctrl *controllerImpl) Create(c *gin.Context) {
	var req CreateNoteRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	created, err := ctrl.service.Create(c.Request.Context(), a, CreateInput(req))
	if err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, "create", "Create", false, req, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	resp := ToResponse(created)
	ctrl.logAudit(c, "create", "Create", true, req, resp)
	c.JSON(http.StatusCreated, resp)
}

// @Router /api/notes/{uuid} [patch]
func (ctrl *controllerImpl) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("O UUID fornecido na URL não é um formato válido."))
		return
	}
	var req UpdateNoteRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	updated, err := ctrl.service.Update(c.Request.Context(), a, id, UpdateInput(req))
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

// @Router /api/notes/{uuid} [delete]
func (ctrl *controllerImpl) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("O UUID fornecido na URL não é um formato válido."))
		return
	}
	a, _ := access.Get(c)
	if err := ctrl.service.Delete(c.Request.Context(), a, id); err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, "delete", "Delete", false, id, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	ctrl.logAudit(c, "delete", "Delete", true, id, gin.H{"status": "deleted"})
	c.Status(http.StatusNoContent)
}

func toRestErr(err error) *rest_err.RestErr {
	switch {
	case errors.Is(err, ErrNotFound):
		return rest_err.NewNotFoundError(err.Error())
	case errors.Is(err, ErrForbidden):
		return rest_err.NewForbiddenError(err.Error())
	case errors.Is(err, ErrInvalidInput):
		return rest_err.NewBadRequestError(err.Error())
	default:
		return rest_err.NewInternalServerError("Falha ao processar anotação.", nil)
	}
}
