package automation

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
	ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "automation", action, function, success, input, output))
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	group := routes.Group("/automations",
		ctrl.mw.SetContextAutorization(),
		ctrl.mw.AuthorizeRole(iam.RoleAdmin),
		ctrl.mw.RequireEntitlement(iam.ModuleAutomations),
	)
	{
		group.GET("", ctrl.List)
		group.POST("", ctrl.Create)
		group.POST("/run", ctrl.Run)
		group.PATCH("/:uuid", ctrl.Update)
		group.DELETE("/:uuid", ctrl.Delete)
		group.POST("/:uuid/run", ctrl.Run)
	}

	alerts := routes.Group("/alerts", ctrl.mw.SetContextAutorization())
	{
		alerts.GET("", ctrl.ListAlerts)
		alerts.POST("/:uuid/read", ctrl.MarkAlertRead)
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

// @Summary      Lista automações
// @Description  Lista as automações da empresa.
// @Tags         Automation
// @Accept       json
// @Produce      json
//
// @Success      200  {array}  AutomationResponseDto  "Automações da empresa."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Plano sem o recurso de automações ou papel sem permissão."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/automations [get]
func (ctrl *controllerImpl) List(c *gin.Context) {
	a, _ := access.Get(c)
	list, err := ctrl.service.List(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	resp := make([]AutomationResponseDto, 0, len(list))
	for _, it := range list {
		resp = append(resp, ToResponse(it))
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Cria uma automação
// @Description  Registra gatilho (KPI ou data) e ação (alerta, tarefa, email ou webhook).
// @Tags         Automation
// @Accept       json
// @Produce      json
//
// @Param        request body CreateAutomationRequestDto true "Definição da automação."
//
// @Success      201  {object}  AutomationResponseDto  "Automação criada."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Plano sem o recurso de automações ou papel sem permissão."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/automations [post]
func (ctrl *controllerImpl) Create(c *gin.Context) {
	var req CreateAutomationRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	created, err := ctrl.service.Create(c.Request.Context(), a, Input(req))
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

// @Summary      Atualiza uma automação
// @Description  Altera nome, gatilho, ação ou estado ativo.
// @Tags         Automation
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID da automação."
// @Param        request body UpdateAutomationRequestDto true "Campos a alterar."
//
// @Success      200  {object}  AutomationResponseDto  "Automação atualizada."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Plano sem o recurso de automações ou papel sem permissão."
// @Failure      404  {object}  rest_err.RestErr    "Automação não encontrada."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/automations/{uuid} [patch]
func (ctrl *controllerImpl) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateAutomationRequestDto
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

// @Summary      Remove uma automação
// @Description  Remove a automação da empresa.
// @Tags         Automation
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID da automação."
//
// @Success      204  {object}  nil  "Automação removida."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Plano sem o recurso de automações ou papel sem permissão."
// @Failure      404  {object}  rest_err.RestErr    "Automação não encontrada."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/automations/{uuid} [delete]
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

// @Summary      Executa automações
// @Description  Avalia os gatilhos contra o snapshot atual e executa as ações das automações disparadas.
// @Tags         Automation
// @Accept       json
// @Produce      json
//
// @Param        uuid path string false "UUID de uma automação específica."
//
// @Success      200  {object}  RunResponseDto  "Resultado da execução."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Plano sem o recurso de automações ou papel sem permissão."
// @Failure      404  {object}  rest_err.RestErr    "Automação não encontrada."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/automations/run [post]
// @Router       /api/automations/{uuid}/run [post]
func (ctrl *controllerImpl) Run(c *gin.Context) {
	var target *uuid.UUID
	if c.Param("uuid") != "" {
		id, ok := parseID(c)
		if !ok {
			return
		}
		target = &id
	}
	a, _ := access.Get(c)
	result, err := ctrl.service.Run(c.Request.Context(), a, target)
	if err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, "run", "Run", false, target, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	resp := toRunResponse(result)
	ctrl.logAudit(c, "run", "Run", true, target, resp)
	c.JSON(http.StatusOK, resp)
}

// @Summary      Lista alertas
// @Description  Lista os alertas visíveis ao usuário pelo papel ou como destinatário.
// @Tags         Automation
// @Accept       json
// @Produce      json
//
// @Success      200  {array}  AlertResponseDto  "Alertas visíveis."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/alerts [get]
func (ctrl *controllerImpl) ListAlerts(c *gin.Context) {
	a, _ := access.Get(c)
	alerts, err := ctrl.service.ListAlerts(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	resp := make([]AlertResponseDto, 0, len(alerts))
	for _, v := range alerts {
		resp = append(resp, toAlertResponse(v))
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Marca alerta como lido
// @Description  Marca o alerta como lido para o usuário.
// @Tags         Automation
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do alerta."
//
// @Success      200  {object}  map[string]bool  "Alerta lido."
// @Failure      400  {object}  rest_err.RestErr    "UUID inválido."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      404  {object}  rest_err.RestErr    "Alerta não encontrado."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/alerts/{uuid}/read [post]
func (ctrl *controllerImpl) MarkAlertRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, _ := access.Get(c)
	if err := ctrl.service.MarkAlertRead(c.Request.Context(), a, id); err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

func toRestErr(err error) *rest_err.RestErr {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlertNotFound):
		return rest_err.NewNotFoundError(err.Error())
	case errors.Is(err, ErrAdminOnly):
		return rest_err.NewForbiddenError(err.Error())
	case errors.Is(err, ErrNotEntitled):
		return rest_err.NewPlanRequiredError(middleware.PlanUpgradeMessage(iam.ModuleAutomations))
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTrigger), errors.Is(err, ErrInvalidAction):
		return rest_err.NewBadRequestError(err.Error())
	default:
		return rest_err.NewInternalServerError("Falha ao processar automação.", nil)
	}
}
