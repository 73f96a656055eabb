package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockverse/internal/iam/access"
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
	ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "task", action, function, success, input, output))
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	group := routes.Group("/tasks", ctrl.mw.SetContextAutorization())
	{
		group.GET("", ctrl.List)
		group.POST("", ctrl.Create)
		group.GET("/calendar.ics", ctrl.Calendar)
		group.PATCH("/:uuid", ctrl.Update)
		group.DELETE("/:uuid", ctrl.Delete)
		group.GET("/:uuid/comments", ctrl.ListComments)
		group.POST("/:uuid/comments", ctrl.AddComment)
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("O UUID fornecido na URL não é um formato válido."))
		return uuid.Nil, false
	}
	return id, true
}

// @Router /api/tasks [get]
func (ctrl *controllerImpl) List(c *gin.Context) {
	a, _ := access.Get(c)
	tasks, err := ctrl.service.List(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	resp := make([]TaskResponseDto, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, ToResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /api/tasks [post]
func (ctrl *controllerImpl) Create(c *gin.Context) {
	var req CreateTaskRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	created, err := ctrl.service.Create(c.Request.Context(), a, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		OwnerEmail:  req.OwnerEmail,
	})
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

// @Router /api/tasks/{uuid} [patch]
func (ctrl *controllerImpl) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateTaskRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	updated, err := ctrl.service.Update(c.Request.Context(), a, id, UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
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

// @Router /api/tasks/{uuid} [delete]
func (ctrl *controllerImpl) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
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

// @Router /api/tasks/{uuid}/comments [get]
func (ctrl *controllerImpl) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, _ := access.Get(c)
	comments, err := ctrl.service.ListComments(c.Request.Context(), a, id)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	resp := make([]CommentResponseDto, 0, len(comments))
	for _, cm := range comments {
		resp = append(resp, commentResponse(cm))
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /api/tasks/{uuid}/comments [post]
func (ctrl *controllerImpl) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CommentRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	comment, err := ctrl.service.AddComment(c.Request.Context(), a, id, req.Body)
	if err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, "comment", "AddComment", false, req, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	resp := commentResponse(comment)
	ctrl.logAudit(c, "comment", "AddComment", true, req, resp)
	c.JSON(http.StatusCreated, resp)
}

// @Router /api/tasks/calendar.ics [get]
func (ctrl *controllerImpl) Calendar(c *gin.Context) {
	a, _ := access.Get(c)
	body, err := ctrl.service.Calendar(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tasks.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func toRestErr(err error) *rest_err.RestErr {
	switch {
	case errors.Is(err, ErrNotFound):
		return rest_err.NewNotFoundError(err.Error())
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrReadOnly):
		return rest_err.NewForbiddenError(err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority):
		return rest_err.NewBadRequestError(err.Error())
	default:
		return rest_err.NewInternalServerError("Falha ao processar tarefa.", nil)
	}
}
