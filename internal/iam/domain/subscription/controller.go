package subscription

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/model"
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

func (ctrl *controllerImpl) logAudit(c *gin.Context, action string, success bool, input, output interface{}) {
	ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "subscription", action, action, success, input, output))
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	routes.GET("/plans", ctrl.Plans)

	group := routes.Group("/subscription", ctrl.mw.SetContextAutorization())
	{
		group.GET("", ctrl.Get)
		admin := group.Group("", ctrl.mw.AuthorizeRole(model.RoleAdmin))
		admin.POST("/trial", ctrl.StartTrial)
		admin.POST("/checkout", ctrl.Checkout)
		admin.POST("/capture", ctrl.Capture)
		admin.POST("/cancel", ctrl.Cancel)
	}
}

// @Router /api/plans [get]
func (ctrl *controllerImpl) Plans(c *gin.Context) {
	plans := model.Plans()
	resp := make([]PlanResponseDto, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, planResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /api/subscription [get]
func (ctrl *controllerImpl) Get(c *gin.Context) {
	a, _ := access.Get(c)
	sub, err := ctrl.service.Get(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	c.JSON(http.StatusOK, toResponse(sub, time.Now()))
}

// @Router /api/subscription/trial [post]
func (ctrl *controllerImpl) StartTrial(c *gin.Context) {
	var req PlanRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	sub, err := ctrl.service.StartTrial(c.Request.Context(), a, req.Plan)
	ctrl.respond(c, "trial", req, sub, err)
}

// @Router /api/subscription/checkout [post]
func (ctrl *controllerImpl) Checkout(c *gin.Context) {
	var req PlanRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	checkout, err := ctrl.service.Checkout(c.Request.Context(), a, req.Plan)
	if err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, "checkout", false, req, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	resp := CheckoutResponseDto{OrderID: checkout.OrderID, ApproveURL: checkout.ApproveURL, Plan: planResponse(checkout.Plan)}
	ctrl.logAudit(c, "checkout", true, req, resp)
	c.JSON(http.StatusCreated, resp)
}

// @Router /api/subscription/capture [post]
func (ctrl *controllerImpl) Capture(c *gin.Context) {
	var req CaptureRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	sub, err := ctrl.service.Capture(c.Request.Context(), a, req.OrderID)
	ctrl.respond(c, "capture", req, sub, err)
}

// @Router /api/subscription/cancel [post]
func (ctrl *controllerImpl) Cancel(c *gin.Context) {
	a, _ := access.Get(c)
	sub, err := ctrl.service.Cancel(c.Request.Context(), a)
	ctrl.respond(c, "cancel", nil, sub, err)
}

func (ctrl *controllerImpl) respond(c *gin.Context, action string, req interface{}, sub model.Subscription, err error) {
	if err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, action, false, req, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	resp := toResponse(sub, time.Now())
	ctrl.logAudit(c, action, true, req, resp)
	c.JSON(http.StatusOK, resp)
}

func toRestErr(err error) *rest_err.RestErr {
	switch {
	case errors.Is(err, ErrForbidden):
		return rest_err.NewForbiddenError(err.Error())
	case errors.Is(err, ErrOwnerNotFound):
		return rest_err.NewNotFoundError(err.Error())
	case errors.Is(err, ErrUnknownPlan):
		return rest_err.NewBadRequestValidationError(err.Error(), []rest_err.Causes{
			rest_err.NewCause("plan", "must be basic, pro or enterprise"),
		})
	case errors.Is(err, ErrTrialUsed), errors.Is(err, ErrAlreadyActive),
		errors.Is(err, ErrNoPendingCheckout), errors.Is(err, ErrPaymentIncomplete),
		errors.Is(err, ErrNotSubscribed):
		return rest_err.NewConflictValidationError(err.Error(), nil)
	case IsPaymentError(err):
		return rest_err.NewExternalProviderError("Falha ao comunicar com o provedor de pagamento.", nil)
	default:
		return rest_err.NewInternalServerError("internal server error", nil)
	}
}
