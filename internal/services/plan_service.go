package services

import (
	"context"
	"time"

	"agencia_backend/internal/config"
	"agencia_backend/internal/currency"
	"agencia_backend/internal/email"
	"agencia_backend/internal/logger"
	"agencia_backend/internal/mercadopago"
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Base monthly prices per tier, in USD. Annual billing is ten months.
var tierMonthlyUSD = map[models.PlanTier]float64{
	models.PlanTierBasico:   99,
	models.PlanTierEstandar: 199,
	models.PlanTierPremium:  299,
}

type SubscribeResult struct {
	Plan        *models.UserPlan `json:"plan"`
	CheckoutURL string           `json:"checkout_url"`
}

type PlanService interface {
	GetByUserID(db *gorm.DB, userID string) (*models.UserPlan, error)
	Subscribe(ctx context.Context, db *gorm.DB, userID string, req *models.CreateSubscriptionRequest) (*SubscribeResult, error)
	Activate(ctx context.Context, db *gorm.DB, req *models.ActivateSubscriptionRequest) (*models.UserPlan, error)
	Deactivate(db *gorm.DB, req *models.DeactivateSubscriptionRequest) error
	Toggle(db *gorm.DB, req *models.ToggleSubscriptionRequest) (*models.UserPlan, error)
	Update(db *gorm.DB, userID string, req *models.UpdatePlanRequest) (*models.UserPlan, error)
}

type planService struct {
	planRepo repositories.PlanRepository
	userRepo repositories.UserRepository
	provider mercadopago.Provider
	currency *currency.Service
	sender   email.Sender
	cfg      *config.Config
}

func NewPlanService(
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	provider mercadopago.Provider,
	currencySvc *currency.Service,
	sender email.Sender,
	cfg *config.Config,
) PlanService {
	return &planService{
		planRepo: planRepo,
		userRepo: userRepo,
		provider: provider,
		currency: currencySvc,
		sender:   sender,
		cfg:      cfg,
	}
}

func (s *planService) GetByUserID(db *gorm.DB, userID string) (*models.UserPlan, error) {
	plan, err := s.planRepo.FindByUserID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return plan, nil
}

// Subscribe creates a provider preapproval for the chosen tier and stores a
// pending plan row carrying the returned subscription id. The plan turns
// active only when the provider confirms through the webhook.
func (s *planService) Subscribe(ctx context.Context, db *gorm.DB, userID string, req *models.CreateSubscriptionRequest) (*SubscribeResult, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	priceUSD, ok := tierMonthlyUSD[req.PlanTier]
	if !ok {
		return nil, apperrors.ErrUnknownPlanTier
	}

	frequency := 1
	period := models.BillingPeriodMonths
	if req.BillingType == models.BillingTypeAnnual {
		period = models.BillingPeriodYears
		priceUSD = priceUSD * 10
	}

	// The provider charges in the configured local currency.
	price := priceUSD
	chargeCurrency := s.cfg.MercadoPago.Currency
	if chargeCurrency == "UYU" {
		price = s.currency.ConvertUSDToUYU(ctx, priceUSD)
	}

	preapproval, err := s.provider.CreatePreapproval(ctx, &mercadopago.CreatePreapprovalRequest{
		Reason:            "Plan " + string(req.PlanTier),
		ExternalReference: user.ID,
		PayerEmail:        user.Email,
		BackURL:           s.cfg.MercadoPago.BackURL,
		AutoRecurring: mercadopago.AutoRecurring{
			Frequency:         frequency,
			FrequencyType:     string(period),
			TransactionAmount: price,
			CurrencyID:        chargeCurrency,
		},
	})
	if err != nil {
		return nil, err
	}

	tier := req.PlanTier
	plan := &models.UserPlan{
		UserID:           user.ID,
		PlanName:         "Plan " + string(tier),
		PlanTier:         &tier,
		BillingType:      req.BillingType,
		Price:            price,
		Currency:         chargeCurrency,
		Status:           models.PlanStatusPending,
		SubscriptionID:   &preapproval.ID,
		BillingFrequency: frequency,
		BillingPeriod:    period,
	}
	if err := s.planRepo.Upsert(db, plan); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return &SubscribeResult{Plan: plan, CheckoutURL: preapproval.InitPoint}, nil
}

// Activate is the operator override for subscriptions the webhook never
// reconciled. Tier comes from the configured preapproval-plan table; price
// and cadence come from the provider when a subscription id is supplied.
func (s *planService) Activate(ctx context.Context, db *gorm.DB, req *models.ActivateSubscriptionRequest) (*models.UserPlan, error) {
	user, err := s.userRepo.FindByID(db, req.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	tierName, ok := s.cfg.MercadoPago.PlanTiers[req.PreapprovalPlanID]
	if !ok {
		return nil, apperrors.ErrUnknownPlanTier
	}
	tier := models.PlanTier(tierName)

	plan := &models.UserPlan{
		UserID:           user.ID,
		PlanName:         "Plan " + tierName,
		PlanTier:         &tier,
		BillingType:      models.BillingTypeMonthly,
		Currency:         s.cfg.MercadoPago.Currency,
		Status:           models.PlanStatusActive,
		BillingFrequency: 1,
		BillingPeriod:    models.BillingPeriodMonths,
	}

	if req.SubscriptionID != "" {
		plan.SubscriptionID = &req.SubscriptionID
		preapproval, err := s.provider.GetPreapproval(ctx, req.SubscriptionID)
		if err != nil {
			return nil, err
		}
		plan.Price = preapproval.AutoRecurring.TransactionAmount
		if preapproval.AutoRecurring.CurrencyID != "" {
			plan.Currency = preapproval.AutoRecurring.CurrencyID
		}
		if preapproval.AutoRecurring.Frequency > 0 {
			plan.BillingFrequency = preapproval.AutoRecurring.Frequency
		}
		if preapproval.AutoRecurring.FrequencyType == string(models.BillingPeriodYears) {
			plan.BillingPeriod = models.BillingPeriodYears
			plan.BillingType = models.BillingTypeAnnual
		}
	} else if monthly, ok := tierMonthlyUSD[tier]; ok {
		price := monthly
		if s.cfg.MercadoPago.Currency == "UYU" {
			price = s.currency.ConvertUSDToUYU(ctx, monthly)
		}
		plan.Price = price
	}

	now := time.Now()
	end := plan.PeriodEnd(now)
	plan.SubscriptionStart = &now
	plan.SubscriptionEnd = &end

	if err := s.planRepo.Upsert(db, plan); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.sender.SendSubscriptionActivated(user.Email, plan); err != nil {
		logger.WithError(err).Warn("activation email failed", "user_id", user.ID)
	}

	return plan, nil
}

// Deactivate sets an existing plan inactive. A user without a plan row is a
// not-found condition, never an implicit insert.
func (s *planService) Deactivate(db *gorm.DB, req *models.DeactivateSubscriptionRequest) error {
	err := s.planRepo.UpdateStatusByUserID(db, req.UserID, models.PlanStatusInactive)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return apperrors.ErrPlanNotFound
		}
		return apperrors.DatabaseError(err)
	}
	return nil
}

// Toggle is the coarse operator switch: activate inserts-or-updates an
// active row, deactivate flips the status on an existing one.
func (s *planService) Toggle(db *gorm.DB, req *models.ToggleSubscriptionRequest) (*models.UserPlan, error) {
	if req.Action == "deactivate" {
		if err := s.Deactivate(db, &models.DeactivateSubscriptionRequest{UserID: req.UserID}); err != nil {
			return nil, err
		}
		return s.GetByUserID(db, req.UserID)
	}

	plan := &models.UserPlan{
		UserID:           req.UserID,
		PlanName:         req.PlanName,
		PlanTier:         req.PlanTier,
		Price:            req.Price,
		Currency:         s.cfg.MercadoPago.Currency,
		Status:           models.PlanStatusActive,
		BillingFrequency: 1,
		BillingPeriod:    models.BillingPeriodMonths,
	}
	if req.BillingType != "" {
		plan.BillingType = req.BillingType
		if req.BillingType == models.BillingTypeAnnual {
			plan.BillingPeriod = models.BillingPeriodYears
		}
	}

	now := time.Now()
	end := plan.PeriodEnd(now)
	plan.SubscriptionStart = &now
	plan.SubscriptionEnd = &end

	if err := s.planRepo.Upsert(db, plan); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return plan, nil
}

func (s *planService) Update(db *gorm.DB, userID string, req *models.UpdatePlanRequest) (*models.UserPlan, error) {
	fields := map[string]interface{}{}
	if req.PlanName != nil {
		fields["plan_name"] = *req.PlanName
	}
	if req.PlanTier != nil {
		fields["plan_tier"] = *req.PlanTier
	}
	if req.BillingType != nil {
		fields["billing_type"] = *req.BillingType
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.BillingFrequency != nil {
		fields["billing_frequency"] = *req.BillingFrequency
	}

	if len(fields) == 0 {
		return s.GetByUserID(db, userID)
	}

	if err := s.planRepo.UpdateFieldsByUserID(db, userID, fields); err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return s.GetByUserID(db, userID)
}
