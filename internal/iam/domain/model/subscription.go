package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlanID string

const (
	PlanBasic      PlanID = "basic"
	PlanPro        PlanID = "pro"
	PlanEnterprise PlanID = "enterprise"
)

type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Module é um módulo do produto liberado por plano.
type Module string

const (
	ModuleChat        Module = "chat"
	ModuleAutomations Module = "automations"
	ModuleNotebook    Module = "notebook"
)

const (
	TrialDuration  = 14 * 24 * time.Hour
	PeriodDuration = 30 * 24 * time.Hour
	// Unlimited em SeatLimit significa sem limite de contas.
	Unlimited = -1
)

type Plan struct {
	ID      PlanID
	Name    string
	Price   decimal.Decimal
	Seats   int
	Modules []Module
}

var plans = map[PlanID]Plan{
	PlanBasic: {
		ID: PlanBasic, Name: "Basic", Price: decimal.NewFromInt(9), Seats: 3,
		Modules: []Module{ModuleNotebook},
	},
	PlanPro: {
		ID: PlanPro, Name: "Pro", Price: decimal.NewFromInt(29), Seats: 15,
		Modules: []Module{ModuleNotebook, ModuleChat, ModuleAutomations},
	},
	PlanEnterprise: {
		ID: PlanEnterprise, Name: "Enterprise", Price: decimal.NewFromInt(99), Seats: Unlimited,
		Modules: []Module{ModuleNotebook, ModuleChat, ModuleAutomations},
	},
}

func LookupPlan(id PlanID) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

func Plans() []Plan {
	return []Plan{plans[PlanBasic], plans[PlanPro], plans[PlanEnterprise]}
}

// Subscription fica embutida (jsonb) na linha do Admin.
type Subscription struct {
	PlanID           PlanID             `json:"planId,omitempty"`
	Status           SubscriptionStatus `json:"status,omitempty"`
	TrialStartedAt   *time.Time         `json:"trialStartedAt,omitempty"`
	TrialEndsAt      *time.Time         `json:"trialEndsAt,omitempty"`
	TrialUsed        bool               `json:"trialUsed"`
	PaymentID        string             `json:"paymentId,omitempty"`
	CurrentPeriodEnd *time.Time         `json:"currentPeriodEnd,omitempty"`
	PendingPlan      PlanID             `json:"pendingPlan,omitempty"`
	PendingOrderID   string             `json:"pendingOrderId,omitempty"`
}

// TrialActive: status trial e fim do período de teste ainda no futuro.
func (s Subscription) TrialActive(now time.Time) bool {
	return s.Status == SubscriptionTrial && s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}

// IsActive diz se a assinatura libera os módulos do plano agora. Um período
// pago vencido deixa de valer.
func (s Subscription) IsActive(now time.Time) bool {
	switch s.Status {
	case SubscriptionTrial:
		return s.TrialActive(now)
	case SubscriptionActive:
		return s.CurrentPeriodEnd == nil || s.CurrentPeriodEnd.After(now)
	default:
		return false
	}
}

// Entitlements é o conjunto de módulos liberados.
type Entitlements map[Module]bool

func (e Entitlements) Has(m Module) bool {
	return e[m]
}

// EntitlementsFor calcula os módulos da assinatura no instante now.
func EntitlementsFor(s Subscription, now time.Time) Entitlements {
	out := Entitlements{ModuleChat: false, ModuleAutomations: false, ModuleNotebook: false}
	if !s.IsActive(now) {
		return out
	}
	plan, ok := LookupPlan(s.PlanID)
	if !ok {
		return out
	}
	for _, m := range plan.Modules {
		out[m] = true
	}
	return out
}

// SeatLimit devolve o número máximo de contas para o plano, ou Unlimited.
// Sem assinatura ativa vale o limite do basic.
func SeatLimit(s Subscription, now time.Time) int {
	if s.IsActive(now) {
		if plan, ok := LookupPlan(s.PlanID); ok {
			return plan.Seats
		}
	}
	return plans[PlanBasic].Seats
}
