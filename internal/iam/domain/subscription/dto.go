package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"stockverse/internal/iam/domain/model"
)

type PlanRequestDto struct {
	Plan model.PlanID `json:"plan" binding:"required"`
}

type CaptureRequestDto struct {
	OrderID string `json:"orderId" binding:"required"`
}

type PlanResponseDto struct {
	ID      model.PlanID    `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Seats   int             `json:"seats"`
	Modules []model.Module  `json:"modules"`
}

type SubscriptionResponseDto struct {
	PlanID           model.PlanID             `json:"planId"`
	Status           model.SubscriptionStatus `json:"status"`
	Active           bool                     `json:"active"`
	TrialUsed        bool                     `json:"trialUsed"`
	TrialEndsAt      *time.Time               `json:"trialEndsAt,omitempty"`
	CurrentPeriodEnd *time.Time               `json:"currentPeriodEnd,omitempty"`
	PendingPlan      model.PlanID             `json:"pendingPlan,omitempty"`
	SeatLimit        int                      `json:"seatLimit"`
	Entitlements     model.Entitlements       `json:"entitlements"`
}

type CheckoutResponseDto struct {
	OrderID    string          `json:"orderId"`
	ApproveURL string          `json:"approveUrl"`
	Plan       PlanResponseDto `json:"plan"`
}

func planResponse(p model.Plan) PlanResponseDto {
	return PlanResponseDto{ID: p.ID, Name: p.Name, Price: p.Price, Seats: p.Seats, Modules: p.Modules}
}

func toResponse(s model.Subscription, now time.Time) SubscriptionResponseDto {
	return SubscriptionResponseDto{
		PlanID:           s.PlanID,
		Status:           s.Status,
		Active:           s.IsActive(now),
		TrialUsed:        s.TrialUsed,
		TrialEndsAt:      s.TrialEndsAt,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		PendingPlan:      s.PendingPlan,
		SeatLimit:        model.SeatLimit(s, now),
		Entitlements:     model.EntitlementsFor(s, now),
	}
}
