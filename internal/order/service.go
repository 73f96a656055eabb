package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stockverse/internal/iam/access"
	"stockverse/internal/infra/paypal"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/metrics"
)

// PaymentGateway é o provedor de pagamento (PayPal).
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, description, referenceID string) (paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (paypal.Capture, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string, extra ...string)
}

type WebhookDirectory interface {
	WebhookURLs(ctx context.Context, business string) []string
}

type CreateInput struct {
	Title       string
	Usage       string
	Description string
	Details     string
	ColorMode   ColorMode
	Colors      []string
	Attachments []FileInput
	Note        string
}

type ConfirmInput struct {
	Quote       *decimal.Decimal
	Currency    string
	PaymentLink *string
	Note        string
}

// Payment é o pedido criado no provedor para o comprador aprovar.
type Payment struct {
	OrderID    string
	ApproveURL string
}

type Service interface {
	Create(ctx context.Context, a access.Access, in CreateInput) (Order, error)
	// List: Admin vê todos os pedidos da empresa, os demais só os seus.
	List(ctx context.Context, a access.Access) ([]Order, error)
	Get(ctx context.Context, a access.Access, id uuid.UUID) (Order, error)

	AppendProofs(ctx context.Context, a access.Access, id uuid.UUID, files []FileInput, note string) (Order, error)
	Decide(ctx context.Context, a access.Access, id uuid.UUID, decision Decision, note string) (Order, error)
	AdminConfirm(ctx context.Context, a access.Access, id uuid.UUID, in ConfirmInput) (Order, error)
	CreatePayment(ctx context.Context, a access.Access, id uuid.UUID) (Order, Payment, error)
	CapturePayment(ctx context.Context, a access.Access, id uuid.UUID, paypalOrderID string) (Order, error)
	MarkPaid(ctx context.Context, a access.Access, id uuid.UUID, note string) (Order, error)
	Cancel(ctx context.Context, a access.Access, id uuid.UUID, note string) (Order, error)
}

type serviceImpl struct {
	repository Repository
	gateway    PaymentGateway
	mail       mailer.Service
	notifier   Notifier
	webhooks   WebhookDirectory
	currency   string
	now        func() time.Time
}

type Options struct {
	Gateway  PaymentGateway
	Mail     mailer.Service
	Notifier Notifier
	Webhooks WebhookDirectory
	// Currency padrão dos orçamentos; USD quando vazio.
	Currency string
}

func NewService(repository Repository, opts Options) Service {
	if opts.Mail == nil {
		opts.Mail = mailer.Disabled()
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	return &serviceImpl{
		repository: repository,
		gateway:    opts.Gateway,
		mail:       opts.Mail,
		notifier:   opts.Notifier,
		webhooks:   opts.Webhooks,
		currency:   strings.ToUpper(opts.Currency),
		now:        time.Now,
	}
}

func (s *serviceImpl) Create(ctx context.Context, a access.Access, in CreateInput) (Order, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return Order{}, err
	}
	description, err := resolveDescription(in.Description, in.Details)
	if err != nil {
		return Order{}, err
	}
	colors, err := NormalizeColors(in.ColorMode, in.Colors)
	if err != nil {
		return Order{}, err
	}
	if len(in.Attachments) == 0 || len(in.Attachments) > MaxAttachments {
		return Order{}, fmt.Errorf("%w: between 1 and %d attachments are required", ErrInvalidInput, MaxAttachments)
	}
	now := s.now().UTC()
	attachments, err := buildFiles(in.Attachments, a.Email, now)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		OrderNumber:    orderNumber(now),
		Business:       a.Business,
		CreatedBy:      a.Email,
		Title:          title,
		Usage:          strings.TrimSpace(in.Usage),
		Description:    description,
		Details:        strings.TrimSpace(in.Details),
		ColorMode:      in.ColorMode,
		Colors:         datatypes.JSONSlice[string](colors),
		Attachments:    datatypes.JSONSlice[FilePayload](attachments),
		Proofs:         datatypes.JSONSlice[FilePayload]{},
		Status:         StatusSubmitted,
		ClientDecision: DecisionPending,
		PaymentStatus:  PaymentBlocked,
		Currency:       s.currency,
		Version:        1,
		CreateAt:       now,
		UpdateAt:       now,
	}
	ApplyNote(&o, a, in.Note)

	created, err := s.repository.Create(ctx, o)
	if err != nil {
		return Order{}, err
	}
	metrics.OrderTransitions.WithLabelValues("create").Inc()
	s.announce(ctx, created, fmt.Sprintf("New order %s from %s: %s", created.OrderNumber, created.CreatedBy, created.Title))
	return created, nil
}

func (s *serviceImpl) List(ctx context.Context, a access.Access) ([]Order, error) {
	createdBy := a.Email
	if a.IsAdmin() {
		createdBy = ""
	}
	return s.repository.List(ctx, a.Business, createdBy)
}

func (s *serviceImpl) Get(ctx context.Context, a access.Access, id uuid.UUID) (Order, error) {
	o, err := s.repository.Read(ctx, a.Business, id)
	if err != nil {
		return Order{}, err
	}
	if !a.IsAdmin() && !isCreator(o, a) {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// commit grava a transição de forma condicional ao estado lido.
func (s *serviceImpl) commit(ctx context.Context, action string, observed, next Order) (Order, error) {
	next.UpdateAt = s.now().UTC()
	saved, err := s.repository.Transition(ctx, next, observed.Status, observed.Version)
	if err != nil {
		return Order{}, err
	}
	metrics.OrderTransitions.WithLabelValues(action).Inc()
	logger.FromContext(ctx).Info("[ORDER] transição aplicada",
		zap.String("order", saved.OrderNumber),
		zap.String("action", action),
		zap.String("from", string(observed.Status)),
		zap.String("to", string(saved.Status)),
	)
	return saved, nil
}

func (s *serviceImpl) AppendProofs(ctx context.Context, a access.Access, id uuid.UUID, files []FileInput, note string) (Order, error) {
	current, err := s.Get(ctx, a, id)
	if err != nil {
		return Order{}, err
	}
	now := s.now().UTC()
	proofs, err := buildFiles(files, a.Email, now)
	if err != nil {
		return Order{}, err
	}
	next, err := AppendProofs(current, a, proofs, now)
	if err != nil {
		return Order{}, err
	}
	ApplyNote(&next, a, note)

	saved, err := s.commit(ctx, "append_proofs", current, next)
	if err != nil {
		return Order{}, err
	}
	s.announce(ctx, saved, fmt.Sprintf("Proofs ready for order %s (%s)", saved.OrderNumber, saved.Title))
	mailer.Notify(ctx, s.mail, mailer.Message{
		To:      []string{saved.CreatedBy},
		Subject: fmt.Sprintf("Proofs ready for order %s", saved.OrderNumber),
		Text: fmt.Sprintf("Proofs for your order %q are ready for review. Please approve or reject them.",
			saved.Title),
	}, logger.FromContext(ctx))
	return saved, nil
}

func (s *serviceImpl) Decide(ctx context.Context, a access.Access, id uuid.UUID, decision Decision, note string) (Order, error) {
	current, err := s.Get(ctx, a, id)
	if err != nil {
		return Order{}, err
	}
	next, err := Decide(current, a, decision, s.now().UTC())
	if err != nil {
		return Order{}, err
	}
	ApplyNote(&next, a, note)

	saved, err := s.commit(ctx, "decision_"+string(decision), current, next)
	if err != nil {
		return Order{}, err
	}
	s.announce(ctx, saved, fmt.Sprintf("Order %s proofs %s by %s", saved.OrderNumber, decision, a.Email))
	return saved, nil
}

func (s *serviceImpl) AdminConfirm(ctx context.Context, a access.Access, id uuid.UUID, in ConfirmInput) (Order, error) {
	current, err := s.Get(ctx, a, id)
	if err != nil {
		return Order{}, err
	}
	var link *string
	if in.PaymentLink != nil {
		trimmed := strings.TrimSpace(*in.PaymentLink)
		link = &trimmed
	}
	next, err := AdminConfirm(current, a, in.Quote, link, s.now().UTC())
	if err != nil {
		return Order{}, err
	}
	if c := strings.ToUpper(strings.TrimSpace(in.Currency)); c != "" {
		if len(c) != 3 {
			return Order{}, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
		}
		next.Currency = c
	}
	ApplyNote(&next, a, in.Note)
	return s.commit(ctx, "admin_confirm", current, next)
}

func (s *serviceImpl) CreatePayment(ctx context.Context, a access.Access, id uuid.UUID) (Order, Payment, error) {
	current, err := s.Get(ctx, a, id)
	if err != nil {
		return Order{}, Payment{}, err
	}
	if err := CanPay(current, a); err != nil {
		return Order{}, Payment{}, err
	}
	if s.gateway == nil {
		return Order{}, Payment{}, ErrPaymentProvider
	}

	external, err := s.gateway.CreateOrder(ctx, current.Quote(), current.Currency,
		fmt.Sprintf("Order %s: %s", current.OrderNumber, current.Title), current.OrderNumber)
	if err != nil {
		logger.FromContext(ctx).Error("[ORDER] falha ao criar pagamento", zap.String("order", current.OrderNumber), zap.Error(err))
		return Order{}, Payment{}, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	next, err := StartPayment(current, a, external.ID)
	if err != nil {
		return Order{}, Payment{}, err
	}
	saved, err := s.commit(ctx, "pay_create", current, next)
	if err != nil {
		return Order{}, Payment{}, err
	}
	return saved, Payment{OrderID: external.ID, ApproveURL: external.ApproveURL}, nil
}

func (s *serviceImpl) CapturePayment(ctx context.Context, a access.Access, id uuid.UUID, paypalOrderID string) (Order, error) {
	current, err := s.Get(ctx, a, id)
	if err != nil {
		return Order{}, err
	}
	paypalOrderID = strings.TrimSpace(paypalOrderID)
	if err := CanCapture(current, a, paypalOrderID); err != nil {
		return Order{}, err
	}
	if s.gateway == nil {
		return Order{}, ErrPaymentProvider
	}

	capture, err := s.gateway.CaptureOrder(ctx, paypalOrderID)
	if err != nil {
		logger.FromContext(ctx).Error("[ORDER] falha ao capturar pagamento", zap.String("order", current.OrderNumber), zap.Error(err))
		return Order{}, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	if capture.Status != paypal.StatusCompleted {
		return Order{}, ErrPaymentIncomplete
	}

	captureID := capture.CaptureID
	if captureID == "" {
		captureID = paypalOrderID
	}
	saved, err := s.completeCapture(ctx, a, current, paypalOrderID, captureID)
	if err != nil {
		return Order{}, err
	}
	s.announce(ctx, saved, fmt.Sprintf("Order %s paid (%s %s)", saved.OrderNumber, saved.Quote().StringFixed(2), saved.Currency))
	return saved, nil
}

// completeCapture grava o pagamento já capturado no PayPal. Uma escrita
// concorrente entre a leitura e a captura gera ErrConflict; nesse caso o
// pedido é relido e a transição tentada mais uma vez.
func (s *serviceImpl) completeCapture(ctx context.Context, a access.Access, current Order, paypalOrderID, captureID string) (Order, error) {
	next, err := CompletePayment(current, a, paypalOrderID, captureID, s.now().UTC())
	if err != nil {
		return Order{}, err
	}
	saved, err := s.commit(ctx, "pay_capture", current, next)
	if !errors.Is(err, ErrConflict) {
		return saved, err
	}

	fresh, readErr := s.repository.Read(ctx, current.Business, current.UUID)
	if readErr == nil {
		if fresh.Status == StatusPaid && fresh.PayPalCaptureID == captureID {
			return fresh, nil
		}
		if next, retryErr := CompletePayment(fresh, a, paypalOrderID, captureID, s.now().UTC()); retryErr == nil {
			if saved, retryErr = s.commit(ctx, "pay_capture", fresh, next); retryErr == nil {
				return saved, nil
			}
		}
	}

	logger.FromContext(ctx).Error("[ORDER] pagamento capturado sem baixa no pedido",
		zap.String("order", current.OrderNumber),
		zap.String("paypal_order", paypalOrderID),
		zap.String("capture", captureID),
		zap.Error(err),
	)
	return Order{}, err
}

func (s *serviceImpl) MarkPaid(ctx context.Context, a access.Access, id uuid.UUID, note string) (Order, error) {
	current, err := s.Get(ctx, a, id)
	if err != nil {
		return Order{}, err
	}
	next, changed, err := MarkPaid(current, a, s.now().UTC())
	if err != nil {
		return Order{}, err
	}
	if !changed {
		return current, nil
	}
	ApplyNote(&next, a, note)
	saved, err := s.commit(ctx, "mark_paid", current, next)
	if err != nil {
		return Order{}, err
	}
	s.announce(ctx, saved, fmt.Sprintf("Order %s marked as paid by %s", saved.OrderNumber, a.Email))
	return saved, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, a access.Access, id uuid.UUID, note string) (Order, error) {
	current, err := s.Get(ctx, a, id)
	if err != nil {
		return Order{}, err
	}
	next, err := Cancel(current, a, s.now().UTC())
	if err != nil {
		return Order{}, err
	}
	ApplyNote(&next, a, note)
	return s.commit(ctx, "cancel", current, next)
}

// announce publica no chat-ops; falhas só são registradas pelo notificador.
func (s *serviceImpl) announce(ctx context.Context, o Order, text string) {
	if s.notifier == nil {
		return
	}
	var extra []string
	if s.webhooks != nil {
		extra = s.webhooks.WebhookURLs(ctx, o.Business)
	}
	s.notifier.Notify(ctx, text, extra...)
}

// orderNumber gera ORD-AAAAMMDD-XXXXXX.
func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// IsClientError diz se o erro é de regra de negócio (não de infraestrutura).
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrInvalidState, ErrConflict,
		ErrAdminOnly, ErrCreatorOnly, ErrCreatorOrAdmin, ErrPaymentIncomplete,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
