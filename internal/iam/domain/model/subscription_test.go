package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestTrialActive(t *testing.T) {
	now := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)

	s := Subscription{Status: SubscriptionTrial, TrialEndsAt: ptr(now.Add(time.Hour))}
	assert.True(t, s.TrialActive(now))

	s.TrialEndsAt = ptr(now)
	assert.False(t, s.TrialActive(now))

	s = Subscription{Status: SubscriptionActive, TrialEndsAt: ptr(now.Add(time.Hour))}
	assert.False(t, s.TrialActive(now))
}

func TestEntitlementsByPlan(t *testing.T) {
	now := time.Now()
	active := func(p PlanID) Subscription {
		return Subscription{PlanID: p, Status: SubscriptionActive, CurrentPeriodEnd: ptr(now.Add(PeriodDuration))}
	}

	basic := EntitlementsFor(active(PlanBasic), now)
	assert.True(t, basic.Has(ModuleNotebook))
	assert.False(t, basic.Has(ModuleAutomations))
	assert.False(t, basic.Has(ModuleChat))

	pro := EntitlementsFor(active(PlanPro), now)
	assert.True(t, pro.Has(ModuleAutomations))
	assert.True(t, pro.Has(ModuleChat))

	ent := EntitlementsFor(active(PlanEnterprise), now)
	assert.True(t, ent.Has(ModuleAutomations))
	assert.True(t, ent.Has(ModuleNotebook))
}

func TestEntitlementsRequireActiveSubscription(t *testing.T) {
	now := time.Now()
	for _, s := range []Subscription{
		{},
		{PlanID: PlanPro, Status: SubscriptionCanceled},
		{PlanID: PlanPro, Status: SubscriptionInactive},
		{PlanID: PlanPro, Status: SubscriptionTrial, TrialEndsAt: ptr(now.Add(-time.Minute))},
		{PlanID: PlanPro, Status: SubscriptionActive, CurrentPeriodEnd: ptr(now.Add(-time.Minute))},
		{PlanID: "gold", Status: SubscriptionActive},
	} {
		e := EntitlementsFor(s, now)
		assert.False(t, e.Has(ModuleAutomations), "%+v", s)
		assert.False(t, e.Has(ModuleNotebook), "%+v", s)
	}
}

func TestSeatLimit(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 3, SeatLimit(Subscription{}, now))
	assert.Equal(t, 15, SeatLimit(Subscription{PlanID: PlanPro, Status: SubscriptionActive}, now))
	assert.Equal(t, Unlimited, SeatLimit(Subscription{PlanID: PlanEnterprise, Status: SubscriptionTrial, TrialEndsAt: ptr(now.Add(time.Hour))}, now))
}

func TestUserSubscriptionRoundTrip(t *testing.T) {
	var u User
	assert.Equal(t, Subscription{}, u.SubscriptionData())

	u.SetSubscription(Subscription{PlanID: PlanPro, TrialUsed: true})
	assert.Equal(t, PlanPro, u.SubscriptionData().PlanID)
	assert.True(t, u.SubscriptionData().TrialUsed)
}
