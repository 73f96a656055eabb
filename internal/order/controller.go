package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/middleware"
	"stockverse/internal/pkg/log/auditoria_log"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/rest_err"
)

// corpo com até MaxProofs arquivos de 6 MiB em base64
const maxUploadBody = 96 << 20

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
	ctrl.audit.LogAsync(c.Request.Context(), access.AuditEntry(c, "order", action, function, success, input, output))
}

func (ctrl *controllerImpl) Routes(routes gin.IRouter) {
	group := routes.Group("/orders", ctrl.mw.SetContextAutorization())
	{
		group.GET("", ctrl.List)
		group.POST("", limitBody, ctrl.Create)
		group.GET("/:uuid", ctrl.Get)
		group.POST("/:uuid/proofs", limitBody, ctrl.AppendProofs)
		group.POST("/:uuid/decision", ctrl.Decide)
		group.POST("/:uuid/confirm", ctrl.AdminConfirm)
		group.POST("/:uuid/pay", ctrl.CreatePayment)
		group.POST("/:uuid/pay/capture", ctrl.CapturePayment)
		group.POST("/:uuid/mark-paid", ctrl.MarkPaid)
		group.POST("/:uuid/cancel", ctrl.Cancel)
	}
}

func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	c.Next()
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		rest_err.Respond(c, rest_err.NewBadRequestError("O UUID fornecido na URL não é um formato válido."))
		return uuid.Nil, false
	}
	return id, true
}

// respond finaliza uma ação do ciclo de vida com auditoria.
func (ctrl *controllerImpl) respond(c *gin.Context, action, function string, input interface{}, o Order, err error) {
	if err != nil {
		if !IsClientError(err) {
			logger.FromGin(c).Error("[ORDER] falha na ação", zap.String("action", action), zap.Error(err))
		}
		restErr := toRestErr(err)
		ctrl.logAudit(c, action, function, false, input, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	resp := ToResponse(o, false)
	ctrl.logAudit(c, action, function, true, input, resp)
	c.JSON(http.StatusOK, resp)
}

// @Summary      Lista pedidos
// @Description  Admin vê todos os pedidos da empresa; demais usuários veem apenas os próprios.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Success      200  {array}  OrderResponseDto  "Pedidos sem o conteúdo dos arquivos."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders [get]
func (ctrl *controllerImpl) List(c *gin.Context) {
	a, _ := access.Get(c)
	orders, err := ctrl.service.List(c.Request.Context(), a)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	resp := make([]OrderResponseDto, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, ToResponse(o, false))
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Detalha um pedido
// @Description  Retorna o pedido com anexos e provas, incluindo o conteúdo base64 dos arquivos.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
//
// @Success      200  {object}  OrderResponseDto  "Pedido encontrado."
// @Failure      400  {object}  rest_err.RestErr    "UUID inválido."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid} [get]
func (ctrl *controllerImpl) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, _ := access.Get(c)
	o, err := ctrl.service.Get(c.Request.Context(), a, id)
	if err != nil {
		rest_err.Respond(c, toRestErr(err))
		return
	}
	c.JSON(http.StatusOK, ToResponse(o, true))
}

// @Summary      Cria um pedido
// @Description  Registra um pedido de arte com anexos (base64 ou data URL) no status submitted.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        request body CreateOrderRequestDto true "Dados do pedido e anexos."
//
// @Success      201  {object}  OrderResponseDto  "Pedido criado com sucesso."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      413  {object}  rest_err.RestErr    "Corpo da requisição acima do limite."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders [post]
func (ctrl *controllerImpl) Create(c *gin.Context) {
	var req CreateOrderRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	created, err := ctrl.service.Create(c.Request.Context(), a, CreateInput{
		Title:       req.Title,
		Usage:       req.Usage,
		Description: req.Description,
		Details:     req.Details,
		ColorMode:   req.ColorMode,
		Colors:      req.Colors,
		Attachments: toFileInputs(req.Attachments),
		Note:        req.Note,
	})
	auditInput := gin.H{"title": req.Title, "colorMode": req.ColorMode, "attachments": len(req.Attachments)}
	if err != nil {
		restErr := toRestErr(err)
		ctrl.logAudit(c, "create", "Create", false, auditInput, restErr)
		rest_err.Respond(c, restErr)
		return
	}
	resp := ToResponse(created, false)
	ctrl.logAudit(c, "create", "Create", true, auditInput, resp)
	c.JSON(http.StatusCreated, resp)
}

// @Summary      Anexa provas
// @Description  Admin anexa provas ao pedido; a decisão do cliente volta para pending e o pagamento fica bloqueado.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
// @Param        request body ProofsRequestDto true "Arquivos de prova e nota opcional."
//
// @Success      200  {object}  OrderResponseDto  "Provas anexadas."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Sem permissão para a ação."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      409  {object}  rest_err.RestErr    "Transição inválida para o estado atual ou escrita concorrente."
// @Failure      413  {object}  rest_err.RestErr    "Corpo da requisição acima do limite."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid}/proofs [post]
func (ctrl *controllerImpl) AppendProofs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ProofsRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	o, err := ctrl.service.AppendProofs(c.Request.Context(), a, id, toFileInputs(req.Proofs), req.Note)
	ctrl.respond(c, "append_proofs", "AppendProofs", gin.H{"order": id, "proofs": len(req.Proofs)}, o, err)
}

// @Summary      Registra a decisão do cliente
// @Description  O criador aprova ou rejeita as provas; rejeitar limpa orçamento e link de pagamento.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
// @Param        request body DecisionRequestDto true "Decisão (approved ou rejected) e nota opcional."
//
// @Success      200  {object}  OrderResponseDto  "Decisão registrada."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Sem permissão para a ação."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      409  {object}  rest_err.RestErr    "Transição inválida para o estado atual ou escrita concorrente."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid}/decision [post]
func (ctrl *controllerImpl) Decide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req DecisionRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	o, err := ctrl.service.Decide(c.Request.Context(), a, id, req.Decision, req.Note)
	ctrl.respond(c, "decision", "Decide", req, o, err)
}

// @Summary      Confirmação do Admin
// @Description  Admin define orçamento, moeda e link de pagamento; o pagamento fica pronto quando o orçamento é positivo.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
// @Param        request body ConfirmRequestDto true "Orçamento, moeda, link e nota."
//
// @Success      200  {object}  OrderResponseDto  "Pedido confirmado."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Sem permissão para a ação."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      409  {object}  rest_err.RestErr    "Transição inválida para o estado atual ou escrita concorrente."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid}/confirm [post]
func (ctrl *controllerImpl) AdminConfirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ConfirmRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	o, err := ctrl.service.AdminConfirm(c.Request.Context(), a, id, ConfirmInput{
		Quote:       req.QuoteAmount,
		Currency:    req.Currency,
		PaymentLink: req.PaymentLink,
		Note:        req.Note,
	})
	ctrl.respond(c, "admin_confirm", "AdminConfirm", req, o, err)
}

// @Summary      Inicia pagamento PayPal
// @Description  Cria um pedido no PayPal com o orçamento e devolve a URL de aprovação.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
//
// @Success      200  {object}  PaymentResponseDto  "Pagamento criado."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Sem permissão para a ação."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      409  {object}  rest_err.RestErr    "Transição inválida para o estado atual ou escrita concorrente."
// @Failure      502  {object}  rest_err.RestErr    "Falha no provedor de pagamento."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid}/pay [post]
func (ctrl *controllerImpl) CreatePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, _ := access.Get(c)
	o, payment, err := ctrl.service.CreatePayment(c.Request.Context(), a, id)
	if err != nil {
		ctrl.respond(c, "pay_create", "CreatePayment", id, o, err)
		return
	}
	resp := PaymentResponseDto{
		Order:         ToResponse(o, false),
		PayPalOrderID: payment.OrderID,
		ApproveURL:    payment.ApproveURL,
	}
	ctrl.logAudit(c, "pay_create", "CreatePayment", true, id, resp)
	c.JSON(http.StatusOK, resp)
}

// @Summary      Captura pagamento PayPal
// @Description  Captura o pedido PayPal pendente; o pedido só vai para paid com status COMPLETED.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
// @Param        request body CaptureRequestDto true "ID do pedido PayPal aprovado."
//
// @Success      200  {object}  OrderResponseDto  "Pagamento capturado."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Sem permissão para a ação."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      409  {object}  rest_err.RestErr    "ID divergente, pagamento incompleto ou escrita concorrente."
// @Failure      502  {object}  rest_err.RestErr    "Falha no provedor de pagamento."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid}/pay/capture [post]
func (ctrl *controllerImpl) CapturePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CaptureRequestDto
	if err := c.ShouldBindJSON(&req); err != nil {
		rest_err.Respond(c, rest_err.NewBindError(err))
		return
	}
	a, _ := access.Get(c)
	o, err := ctrl.service.CapturePayment(c.Request.Context(), a, id, req.PayPalOrderID)
	ctrl.respond(c, "pay_capture", "CapturePayment", req, o, err)
}

// @Summary      Baixa manual
// @Description  Admin marca o pedido como pago; em pedido já pago nada muda.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
// @Param        request body NoteRequestDto false "Nota opcional."
//
// @Success      200  {object}  OrderResponseDto  "Pedido pago."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Sem permissão para a ação."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      409  {object}  rest_err.RestErr    "Transição inválida para o estado atual ou escrita concorrente."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid}/mark-paid [post]
func (ctrl *controllerImpl) MarkPaid(c *gin.Context) {
	ctrl.noteAction(c, "mark_paid", "MarkPaid", ctrl.service.MarkPaid)
}

// @Summary      Cancela um pedido
// @Description  Criador ou Admin cancela um pedido não terminal.
// @Tags         Order
// @Accept       json
// @Produce      json
//
// @Param        uuid path string true "UUID do pedido."
// @Param        request body NoteRequestDto false "Nota opcional."
//
// @Success      200  {object}  OrderResponseDto  "Pedido cancelado."
// @Failure      400  {object}  rest_err.RestErr    "Requisição inválida (JSON mal formatado ou dados inválidos)."
// @Failure      401  {object}  rest_err.RestErr    "Não autenticado."
// @Failure      403  {object}  rest_err.RestErr    "Sem permissão para a ação."
// @Failure      404  {object}  rest_err.RestErr    "Pedido não encontrado ou não visível para o usuário."
// @Failure      409  {object}  rest_err.RestErr    "Transição inválida para o estado atual ou escrita concorrente."
// @Failure      500  {object}  rest_err.RestErr    "Erro interno do servidor."
//
// @Router       /api/orders/{uuid}/cancel [post]
func (ctrl *controllerImpl) Cancel(c *gin.Context) {
	ctrl.noteAction(c, "cancel", "Cancel", ctrl.service.Cancel)
}

type noteFunc func(ctx context.Context, a access.Access, id uuid.UUID, note string) (Order, error)

func (ctrl *controllerImpl) noteAction(c *gin.Context, action, function string, fn noteFunc) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req NoteRequestDto
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			rest_err.Respond(c, rest_err.NewBindError(err))
			return
		}
	}
	a, _ := access.Get(c)
	o, err := fn(c.Request.Context(), a, id, req.Note)
	ctrl.respond(c, action, function, gin.H{"order": id, "note": req.Note}, o, err)
}

func toRestErr(err error) *rest_err.RestErr {
	switch {
	case errors.Is(err, ErrNotFound):
		return rest_err.NewNotFoundError(err.Error())
	case errors.Is(err, ErrAdminOnly), errors.Is(err, ErrCreatorOnly), errors.Is(err, ErrCreatorOrAdmin):
		return rest_err.NewForbiddenError(err.Error())
	case errors.Is(err, ErrInvalidInput):
		return rest_err.NewBadRequestError(err.Error())
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrConflict), errors.Is(err, ErrPaymentIncomplete):
		return rest_err.NewConflictValidationError(err.Error(), nil)
	case errors.Is(err, ErrPaymentProvider):
		return rest_err.NewExternalProviderError("Falha ao comunicar com o provedor de pagamento.", nil)
	default:
		return rest_err.NewInternalServerError("Falha ao processar pedido.", nil)
	}
}
