package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/model"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/infra/lock"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/rest_err"
)

type Controller interface {
	Routes(routes gin.IRouter)
	Create(c *gin.Context)
	Read(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
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
	ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "user", action, function, success, input, output))
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	userGroup := routes.Group("/user", ctrl.mw.SetContextAutorization())
	{
		userGroup.POST("", ctrl.mw.AuthorizeRole(model.RoleAdmin), ctrl.Create)
		userGroup.GET("/list", ctrl.List)
		userGroup.GET("/:uuid", ctrl.Read)
		userGroup.PATCH("/:uuid", ctrl.Update)
		userGroup.DELETE("/:uuid", ctrl.mw.AuthorizeRole(model.RoleAdmin), ctrl.Delete)
	}
}

// Create adiciona uma conta à empresa respeitando o limite de assentos.
// @Router /api/user [post]
func (ctrl *controllerImpl) Create(c *gin.Context) {
	var req CreateUserRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}

	a, _ := access.Get(c)
	created, err := ctrl.service.Add(c.Request.Context(), a, CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	// senha fora da auditoria
	req.Password = ""
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

// @Router /api/user/{uuid} [get]
func (ctrl *controllerImpl) Read(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("invalid uuid"))
		return
	}

	a, _ := access.Get(c)
	found, err := ctrl.service.Read(c.Request.Context(), a, id)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	c.JSON(http.StatusOK, ToResponse(found))
}

// @Router /api/user/list [get]
func (ctrl *controllerImpl) List(c *gin.Context) {
	a, _ := access.Get(c)
	users, err := ctrl.service.List(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	limit, err := ctrl.service.SeatLimit(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}

	response := UserListResponseDto{Users: make([]UserResponseDto, 0, len(users)), SeatLimit: limit}
	for _, u := range users {
		response.Users = append(response.Users, ToResponse(u))
	}
	c.JSON(http.StatusOK, response)
}

// @Router /api/user/{uuid} [patch]
func (ctrl *controllerImpl) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("invalid uuid"))
		return
	}

	var req UpdateUserRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}

	a, _ := access.Get(c)
	updated, err := ctrl.service.Update(c.Request.Context(), a, id, UpdateInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	req.Password = nil
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

// @Router /api/user/{uuid} [delete]
func (ctrl *controllerImpl) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("invalid uuid"))
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
		return rest_err.NewNotFoundError(ErrNotFound.Error())
	case errors.Is(err, ErrEmailDuplicated):
		return rest_err.NewConflictValidationError(ErrEmailDuplicated.Error(), []rest_err.Causes{
			rest_err.NewCause("email", "already in use"),
		})
	case errors.Is(err, ErrSeatLimit):
		return rest_err.NewConflictValidationError(err.Error(), nil)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrSelfDelete):
		return rest_err.NewForbiddenError(err.Error())
	case errors.Is(err, ErrInvalidRole):
		return rest_err.NewBadRequestValidationError(err.Error(), []rest_err.Causes{
			rest_err.NewCause("role", "must be Manager or Guest"),
		})
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNothingToUpdate):
		return rest_err.NewBadRequestError(err.Error())
	case errors.Is(err, lock.ErrLockTimeout):
		return rest_err.NewTooManyRequestsError("Outra operação de contas está em andamento. Tente novamente.")
	default:
		return rest_err.NewInternalServerError("internal server error", nil)
	}
}
