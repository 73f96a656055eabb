package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockverse/internal/iam/access"
	"stockverse/internal/iam/domain/model"
	"stockverse/internal/infra/paypal"
	"stockverse/internal/pkg/logger"
)

const currency = "USD"

// PaymentGateway é o subconjunto do cliente PayPal usado na cobrança.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, description, referenceID string) (paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (paypal.Capture, error)
}

// Checkout é o pedido criado no provedor para o cliente aprovar.
type Checkout struct {
	OrderID    string
	ApproveURL string
	Plan       model.Plan
}

type Service interface {
	Get(ctx context.Context, a access.Access) (model.Subscription, error)
	StartTrial(ctx context.Context, a access.Access, plan model.PlanID) (model.Subscription, error)
	Checkout(ctx context.Context, a access.Access, plan model.PlanID) (Checkout, error)
	Capture(ctx context.Context, a access.Access, orderID string) (model.Subscription, error)
	Cancel(ctx context.Context, a access.Access) (model.Subscription, error)
}

type serviceImpl struct {
	repository Repository
	gateway    PaymentGateway
	now        func() time.Time
}

func NewService(repository Repository, gateway PaymentGateway) Service {
	return &serviceImpl{repository: repository, gateway: gateway, now: time.Now}
}

func (s *serviceImpl) Get(ctx context.Context, a access.Access) (model.Subscription, error) {
	owner, err := s.repository.GetOwner(ctx, a.Business)
	if err != nil {
		return model.Subscription{}, err
	}
	return owner.SubscriptionData(), nil
}

func (s *serviceImpl) owner(ctx context.Context, a access.Access) (model.User, error) {
	if !a.IsAdmin() {
		return model.User{}, ErrForbidden
	}
	return s.repository.GetOwner(ctx, a.Business)
}

// StartTrial libera o plano por 14 dias. Só pode ser usado uma vez.
func (s *serviceImpl) StartTrial(ctx context.Context, a access.Access, plan model.PlanID) (model.Subscription, error) {
	if _, ok := model.LookupPlan(plan); !ok {
		return model.Subscription{}, ErrUnknownPlan
	}
	owner, err := s.owner(ctx, a)
	if err != nil {
		return model.Subscription{}, err
	}

	now := s.now().UTC()
	sub := owner.SubscriptionData()
	if sub.TrialUsed {
		return model.Subscription{}, ErrTrialUsed
	}
	if sub.Status == model.SubscriptionActive && sub.IsActive(now) {
		return model.Subscription{}, ErrAlreadyActive
	}

	ends := now.Add(model.TrialDuration)
	sub.PlanID = plan
	sub.Status = model.SubscriptionTrial
	sub.TrialStartedAt = &now
	sub.TrialEndsAt = &ends
	sub.TrialUsed = true

	if err := s.repository.Save(ctx, a.Business, owner.UUID, sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

// Checkout cria o pedido no PayPal pelo preço do plano e guarda o id
// pendente para a captura.
func (s *serviceImpl) Checkout(ctx context.Context, a access.Access, plan model.PlanID) (Checkout, error) {
	p, ok := model.LookupPlan(plan)
	if !ok {
		return Checkout{}, ErrUnknownPlan
	}
	owner, err := s.owner(ctx, a)
	if err != nil {
		return Checkout{}, err
	}

	order, err := s.gateway.CreateOrder(ctx, p.Price, currency,
		fmt.Sprintf("StockVerse %s plan", p.Name), a.Business)
	if err != nil {
		logger.FromContext(ctx).Warn("[SUBSCRIPTION] falha ao criar pedido", zap.Error(err))
		return Checkout{}, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	sub := owner.SubscriptionData()
	sub.PendingPlan = plan
	sub.PendingOrderID = order.ID
	if err := s.repository.Save(ctx, a.Business, owner.UUID, sub); err != nil {
		return Checkout{}, err
	}

	return Checkout{OrderID: order.ID, ApproveURL: order.ApproveURL, Plan: p}, nil
}

// Capture confirma o pagamento aprovado e ativa o plano por 30 dias.
func (s *serviceImpl) Capture(ctx context.Context, a access.Access, orderID string) (model.Subscription, error) {
	owner, err := s.owner(ctx, a)
	if err != nil {
		return model.Subscription{}, err
	}

	sub := owner.SubscriptionData()
	if orderID == "" || sub.PendingOrderID != orderID {
		return model.Subscription{}, ErrNoPendingCheckout
	}

	capture, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		logger.FromContext(ctx).Warn("[SUBSCRIPTION] falha ao capturar pedido",
			zap.String("order", orderID), zap.Error(err))
		return model.Subscription{}, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	if capture.Status != paypal.StatusCompleted {
		return model.Subscription{}, fmt.Errorf("%w: status %s", ErrPaymentIncomplete, capture.Status)
	}

	now := s.now().UTC()
	end := now.Add(model.PeriodDuration)
	sub.PlanID = sub.PendingPlan
	sub.Status = model.SubscriptionActive
	sub.PaymentID = capture.CaptureID
	if sub.PaymentID == "" {
		sub.PaymentID = capture.OrderID
	}
	sub.CurrentPeriodEnd = &end
	sub.PendingPlan = ""
	sub.PendingOrderID = ""

	if err := s.repository.Save(ctx, a.Business, owner.UUID, sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, a access.Access) (model.Subscription, error) {
	owner, err := s.owner(ctx, a)
	if err != nil {
		return model.Subscription{}, err
	}
	sub := owner.SubscriptionData()
	if sub.PlanID == "" || sub.Status == model.SubscriptionCanceled {
		return model.Subscription{}, ErrNotSubscribed
	}
	sub.Status = model.SubscriptionCanceled
	sub.PendingPlan = ""
	sub.PendingOrderID = ""
	if err := s.repository.Save(ctx, a.Business, owner.UUID, sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

// IsPaymentError indica falha do provedor externo (502).
func IsPaymentError(err error) bool {
	return errors.Is(err, ErrPaymentUnavailable) || errors.Is(err, paypal.ErrNotConfigured)
}
