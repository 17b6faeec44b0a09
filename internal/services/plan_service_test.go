package services

import (
	"context"
	"testing"

	"agencia_backend/internal/config"
	"agencia_backend/internal/currency"
	"agencia_backend/internal/models"
	"agencia_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanFixture() (*fakeProvider, *fakePlanRepo, *fakeUserRepo, *fakeSender, PlanService) {
	provider := newFakeProvider()
	planRepo := newFakePlanRepo()
	userRepo := newFakeUserRepo()
	sender := &fakeSender{}

	cfg := &config.Config{}
	cfg.MercadoPago.Currency = "UYU"
	cfg.MercadoPago.PlanTiers = map[string]string{"plan-basico": "basico", "plan-premium": "premium"}

	// No rate API configured, so conversions use the fallback rate.
	currencySvc := currency.NewService("", 40.0)

	svc := NewPlanService(planRepo, userRepo, provider, currencySvc, sender, cfg)
	return provider, planRepo, userRepo, sender, svc
}

func TestDeactivate_WithoutPlanRowIsNotFound(t *testing.T) {
	_, _, _, _, svc := newPlanFixture()

	err := svc.Deactivate(nil, &models.DeactivateSubscriptionRequest{UserID: "ghost"})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodePlanNotFound, appErr.Code)
}

func TestDeactivate_SetsInactive(t *testing.T) {
	_, planRepo, _, _, svc := newPlanFixture()
	planRepo.plans["user-1"] = &models.UserPlan{UserID: "user-1", Status: models.PlanStatusActive}

	require.NoError(t, svc.Deactivate(nil, &models.DeactivateSubscriptionRequest{UserID: "user-1"}))

	plan, _ := planRepo.FindByUserID(nil, "user-1")
	assert.Equal(t, models.PlanStatusInactive, plan.Status)
}

func TestSubscribe_CreatesPendingPlanWithCheckoutURL(t *testing.T) {
	_, planRepo, userRepo, _, svc := newPlanFixture()
	userRepo.users["user-1"] = &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "client@example.com",
	}

	result, err := svc.Subscribe(context.Background(), nil, "user-1", &models.CreateSubscriptionRequest{
		PlanTier:    models.PlanTierBasico,
		BillingType: models.BillingTypeMonthly,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.example/pre-created", result.CheckoutURL)
	assert.Equal(t, models.PlanStatusPending, result.Plan.Status)
	require.NotNil(t, result.Plan.SubscriptionID)
	assert.Equal(t, "pre-created", *result.Plan.SubscriptionID)
	// basico is 99 USD monthly at the 40.0 fallback rate.
	assert.Equal(t, 3960.0, result.Plan.Price)
	assert.Equal(t, "UYU", result.Plan.Currency)

	stored, err := planRepo.FindByUserID(nil, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusPending, stored.Status)
}

func TestSubscribe_UnknownTierRejected(t *testing.T) {
	_, _, userRepo, _, svc := newPlanFixture()
	userRepo.users["user-1"] = &models.User{BaseModel: models.BaseModel{ID: "user-1"}}

	_, err := svc.Subscribe(context.Background(), nil, "user-1", &models.CreateSubscriptionRequest{
		PlanTier: models.PlanTier("deluxe"),
	})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrUnknownPlanTier.Code, appErr.Code)
}

func TestActivate_DerivesTierFromConfiguredTable(t *testing.T) {
	_, planRepo, userRepo, sender, svc := newPlanFixture()
	userRepo.users["user-1"] = &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "client@example.com",
	}

	plan, err := svc.Activate(context.Background(), nil, &models.ActivateSubscriptionRequest{
		UserID:            "user-1",
		PreapprovalPlanID: "plan-premium",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlanStatusActive, plan.Status)
	require.NotNil(t, plan.PlanTier)
	assert.Equal(t, models.PlanTierPremium, *plan.PlanTier)
	require.NotNil(t, plan.SubscriptionEnd)
	assert.Equal(t, 1, sender.planActivations)

	stored, _ := planRepo.FindByUserID(nil, "user-1")
	assert.Equal(t, models.PlanStatusActive, stored.Status)
}

func TestActivate_UnmappedPlanIDRejected(t *testing.T) {
	_, _, userRepo, _, svc := newPlanFixture()
	userRepo.users["user-1"] = &models.User{BaseModel: models.BaseModel{ID: "user-1"}}

	_, err := svc.Activate(context.Background(), nil, &models.ActivateSubscriptionRequest{
		UserID:            "user-1",
		PreapprovalPlanID: "plan-unknown",
	})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrUnknownPlanTier.Code, appErr.Code)
}

func TestToggle_ActivateInsertsWhenNoRowExists(t *testing.T) {
	_, planRepo, _, _, svc := newPlanFixture()

	tier := models.PlanTierEstandar
	plan, err := svc.Toggle(nil, &models.ToggleSubscriptionRequest{
		UserID:   "user-9",
		Action:   "activate",
		PlanName: "Plan estandar",
		PlanTier: &tier,
		Price:    7960,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlanStatusActive, plan.Status)
	stored, err := planRepo.FindByUserID(nil, "user-9")
	require.NoError(t, err)
	assert.Equal(t, 7960.0, stored.Price)
}

func TestToggle_DeactivateWithoutRowIsNotFound(t *testing.T) {
	_, _, _, _, svc := newPlanFixture()

	_, err := svc.Toggle(nil, &models.ToggleSubscriptionRequest{UserID: "ghost", Action: "deactivate"})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodePlanNotFound, appErr.Code)
}

func TestUpdate_PartialFields(t *testing.T) {
	_, planRepo, _, _, svc := newPlanFixture()
	planRepo.plans["user-1"] = &models.UserPlan{
		UserID:   "user-1",
		PlanName: "Plan basico",
		Price:    3960,
		Status:   models.PlanStatusActive,
	}

	newPrice := 4200.0
	plan, err := svc.Update(nil, "user-1", &models.UpdatePlanRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 4200.0, plan.Price)
	assert.Equal(t, "Plan basico", plan.PlanName)
	assert.Equal(t, models.PlanStatusActive, plan.Status)
}
