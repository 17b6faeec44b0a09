package services

import (
	"context"
	"testing"
	"time"

	"agencia_backend/internal/config"
	"agencia_backend/internal/mercadopago"
	"agencia_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookFixture() (*fakeProvider, *fakePlanRepo, *fakeUserRepo, *fakeEventRepo, WebhookService) {
	provider := newFakeProvider()
	planRepo := newFakePlanRepo()
	userRepo := newFakeUserRepo()
	eventRepo := newFakeEventRepo()

	cfg := &config.Config{}
	cfg.MercadoPago.Currency = "UYU"
	cfg.MercadoPago.PlanTiers = map[string]string{"plan-basico": "basico", "plan-premium": "premium"}

	svc := NewWebhookService(planRepo, userRepo, eventRepo, provider, &fakeSender{}, cfg)
	return provider, planRepo, userRepo, eventRepo, svc
}

func payloadFor(typ, id string) *models.WebhookPayload {
	p := &models.WebhookPayload{Type: typ}
	p.Data.ID = id
	return p
}

func TestWebhook_AuthorizedPreapprovalActivatesPlan(t *testing.T) {
	provider, planRepo, userRepo, _, svc := newWebhookFixture()

	userRepo.users["user-1"] = &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "client@example.com",
	}
	provider.preapprovals["pre-1"] = &mercadopago.Preapproval{
		ID:                "pre-1",
		Status:            "authorized",
		Reason:            "Plan premium",
		ExternalReference: "user-1",
		PreapprovalPlanID: "plan-premium",
		AutoRecurring: mercadopago.AutoRecurring{
			Frequency:         1,
			FrequencyType:     "months",
			TransactionAmount: 11960,
			CurrencyID:        "UYU",
		},
	}

	before := time.Now()
	err := svc.ProcessNotification(context.Background(), nil, payloadFor("subscription_preapproval", "pre-1"))
	require.NoError(t, err)

	plan, err := planRepo.FindByUserID(nil, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusActive, plan.Status)
	require.NotNil(t, plan.PlanTier)
	assert.Equal(t, models.PlanTierPremium, *plan.PlanTier)
	assert.Equal(t, 11960.0, plan.Price)
	require.NotNil(t, plan.SubscriptionStart)
	require.NotNil(t, plan.SubscriptionEnd)
	expectedEnd := plan.SubscriptionStart.AddDate(0, 1, 0)
	assert.WithinDuration(t, expectedEnd, *plan.SubscriptionEnd, time.Second)
	assert.True(t, !plan.SubscriptionStart.Before(before.Add(-time.Second)))
}

func TestWebhook_CancelledPreapprovalOnlyChangesStatus(t *testing.T) {
	provider, planRepo, _, _, svc := newWebhookFixture()

	subID := "pre-2"
	end := time.Now().AddDate(0, 1, 0)
	tier := models.PlanTierBasico
	planRepo.plans["user-2"] = &models.UserPlan{
		UserID:           "user-2",
		PlanName:         "Plan basico",
		PlanTier:         &tier,
		Price:            3960,
		Status:           models.PlanStatusActive,
		SubscriptionID:   &subID,
		SubscriptionEnd:  &end,
		BillingFrequency: 1,
		BillingPeriod:    models.BillingPeriodMonths,
	}
	provider.preapprovals[subID] = &mercadopago.Preapproval{ID: subID, Status: "cancelled"}

	err := svc.ProcessNotification(context.Background(), nil, payloadFor("subscription_preapproval", subID))
	require.NoError(t, err)

	plan, _ := planRepo.FindByUserID(nil, "user-2")
	assert.Equal(t, models.PlanStatusCancelled, plan.Status)
	assert.Equal(t, 3960.0, plan.Price)
	assert.Equal(t, models.PlanTierBasico, *plan.PlanTier)
	assert.WithinDuration(t, end, *plan.SubscriptionEnd, time.Millisecond)
}

func TestWebhook_PausedPreapprovalGoesInactive(t *testing.T) {
	provider, planRepo, _, _, svc := newWebhookFixture()

	subID := "pre-3"
	planRepo.plans["user-3"] = &models.UserPlan{
		UserID: "user-3", Status: models.PlanStatusActive, SubscriptionID: &subID,
	}
	provider.preapprovals[subID] = &mercadopago.Preapproval{ID: subID, Status: "paused"}

	err := svc.ProcessNotification(context.Background(), nil, payloadFor("subscription_preapproval", subID))
	require.NoError(t, err)

	plan, _ := planRepo.FindByUserID(nil, "user-3")
	assert.Equal(t, models.PlanStatusInactive, plan.Status)
}

func TestWebhook_ApprovedPaymentExtendsOneMonth(t *testing.T) {
	provider, planRepo, _, _, svc := newWebhookFixture()

	subID := "pre-4"
	end := time.Now().AddDate(0, 0, 10)
	planRepo.plans["user-4"] = &models.UserPlan{
		UserID:           "user-4",
		Status:           models.PlanStatusActive,
		SubscriptionID:   &subID,
		SubscriptionEnd:  &end,
		BillingFrequency: 1,
		BillingPeriod:    models.BillingPeriodMonths,
	}
	provider.payments["777"] = &mercadopago.Payment{ID: 777, Status: "approved", PreapprovalID: subID}

	err := svc.ProcessNotification(context.Background(), nil, payloadFor("payment", "777"))
	require.NoError(t, err)

	plan, _ := planRepo.FindByUserID(nil, "user-4")
	assert.Equal(t, models.PlanStatusActive, plan.Status)
	assert.WithinDuration(t, end.AddDate(0, 1, 0), *plan.SubscriptionEnd, time.Millisecond)
}

func TestWebhook_ReplayedPaymentExtendsOnlyOnce(t *testing.T) {
	provider, planRepo, _, eventRepo, svc := newWebhookFixture()

	subID := "pre-5"
	end := time.Now().AddDate(0, 0, 5)
	planRepo.plans["user-5"] = &models.UserPlan{
		UserID:           "user-5",
		Status:           models.PlanStatusActive,
		SubscriptionID:   &subID,
		SubscriptionEnd:  &end,
		BillingFrequency: 1,
		BillingPeriod:    models.BillingPeriodMonths,
	}
	provider.payments["888"] = &mercadopago.Payment{ID: 888, Status: "approved", PreapprovalID: subID}

	payload := payloadFor("payment", "888")
	require.NoError(t, svc.ProcessNotification(context.Background(), nil, payload))
	require.NoError(t, svc.ProcessNotification(context.Background(), nil, payload))

	plan, _ := planRepo.FindByUserID(nil, "user-5")
	assert.WithinDuration(t, end.AddDate(0, 1, 0), *plan.SubscriptionEnd, time.Millisecond)

	recorded, _ := eventRepo.Recorded(nil, "payment", "888")
	assert.True(t, recorded)
}

func TestWebhook_RejectedPaymentDropsToPending(t *testing.T) {
	provider, planRepo, _, _, svc := newWebhookFixture()

	subID := "pre-6"
	end := time.Now().AddDate(0, 0, 20)
	planRepo.plans["user-6"] = &models.UserPlan{
		UserID:          "user-6",
		Status:          models.PlanStatusActive,
		SubscriptionID:  &subID,
		SubscriptionEnd: &end,
	}
	provider.payments["999"] = &mercadopago.Payment{ID: 999, Status: "rejected", PreapprovalID: subID}

	err := svc.ProcessNotification(context.Background(), nil, payloadFor("payment", "999"))
	require.NoError(t, err)

	plan, _ := planRepo.FindByUserID(nil, "user-6")
	assert.Equal(t, models.PlanStatusPending, plan.Status)
	assert.WithinDuration(t, end, *plan.SubscriptionEnd, time.Millisecond)
}

func TestWebhook_BusinessMissesAreAcknowledged(t *testing.T) {
	provider, _, _, _, svc := newWebhookFixture()
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		assert.NoError(t, svc.ProcessNotification(ctx, nil, payloadFor("payment", "")))
	})

	t.Run("provider fetch failure", func(t *testing.T) {
		assert.NoError(t, svc.ProcessNotification(ctx, nil, payloadFor("subscription_preapproval", "unknown")))
	})

	t.Run("unmapped type", func(t *testing.T) {
		assert.NoError(t, svc.ProcessNotification(ctx, nil, payloadFor("chargeback", "x")))
	})

	t.Run("payment without preapproval", func(t *testing.T) {
		provider.payments["55"] = &mercadopago.Payment{ID: 55, Status: "approved"}
		assert.NoError(t, svc.ProcessNotification(ctx, nil, payloadFor("payment", "55")))
	})

	t.Run("payment matching no plan", func(t *testing.T) {
		provider.payments["56"] = &mercadopago.Payment{ID: 56, Status: "approved", PreapprovalID: "ghost"}
		assert.NoError(t, svc.ProcessNotification(ctx, nil, payloadFor("payment", "56")))
	})
}

func TestWebhook_ReplayedPreapprovalIsIdempotent(t *testing.T) {
	provider, planRepo, userRepo, _, svc := newWebhookFixture()

	userRepo.users["user-7"] = &models.User{
		BaseModel: models.BaseModel{ID: "user-7"},
		Email:     "c7@example.com",
	}
	provider.preapprovals["pre-7"] = &mercadopago.Preapproval{
		ID:                "pre-7",
		Status:            "authorized",
		ExternalReference: "user-7",
		AutoRecurring:     mercadopago.AutoRecurring{Frequency: 1, FrequencyType: "months", TransactionAmount: 100, CurrencyID: "UYU"},
	}

	payload := payloadFor("subscription_preapproval", "pre-7")
	require.NoError(t, svc.ProcessNotification(context.Background(), nil, payload))
	first, _ := planRepo.FindByUserID(nil, "user-7")

	require.NoError(t, svc.ProcessNotification(context.Background(), nil, payload))
	second, _ := planRepo.FindByUserID(nil, "user-7")

	// One row per user; replay overwrites with equivalent values.
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Price, second.Price)
	assert.Len(t, planRepo.plans, 1)
}
