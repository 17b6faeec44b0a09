package services

import (
	"context"
	"fmt"
	"time"

	"agencia_backend/internal/config"
	"agencia_backend/internal/email"
	"agencia_backend/internal/logger"
	"agencia_backend/internal/mercadopago"
	"agencia_backend/internal/models"
	"agencia_backend/internal/reconcile"
	"agencia_backend/internal/repositories"
	"agencia_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// WebhookService reconciles provider notifications onto the local plan row.
// The provider is authoritative: every notification triggers a re-fetch of
// the referenced entity and only the fetched state is applied. Business
// misses (missing ids, unknown statuses, unmatched plans) return nil so the
// handler acknowledges with 200 and the provider stops retrying; only
// database failures propagate as errors.
type WebhookService interface {
	ProcessNotification(ctx context.Context, db *gorm.DB, payload *models.WebhookPayload) error
}

type webhookService struct {
	planRepo  repositories.PlanRepository
	userRepo  repositories.UserRepository
	eventRepo repositories.WebhookEventRepository
	provider  mercadopago.Provider
	sender    email.Sender
	cfg       *config.Config
}

func NewWebhookService(
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	eventRepo repositories.WebhookEventRepository,
	provider mercadopago.Provider,
	sender email.Sender,
	cfg *config.Config,
) WebhookService {
	return &webhookService{
		planRepo:  planRepo,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		provider:  provider,
		sender:    sender,
		cfg:       cfg,
	}
}

func (s *webhookService) ProcessNotification(ctx context.Context, db *gorm.DB, payload *models.WebhookPayload) error {
	switch payload.Type {
	case "subscription_preapproval":
		return s.processPreapproval(ctx, db, payload.Data.ID)
	case "payment":
		return s.processPayment(ctx, db, payload.Data.ID)
	default:
		logger.CtxInfo(ctx, "webhook type ignored", "type", payload.Type, "action", payload.Action)
		return nil
	}
}

func (s *webhookService) processPreapproval(ctx context.Context, db *gorm.DB, id string) error {
	if id == "" {
		logger.CtxWarn(ctx, "preapproval webhook without id")
		return nil
	}

	preapproval, err := s.provider.GetPreapproval(ctx, id)
	if err != nil {
		logger.CtxWithError(ctx, "preapproval fetch failed", err, "preapproval_id", id)
		return nil
	}

	ev, ok := reconcile.PreapprovalEvent(preapproval.Status)
	if !ok {
		logger.CtxInfo(ctx, "preapproval status not actionable",
			"preapproval_id", id, "status", preapproval.Status)
		return nil
	}

	current := models.PlanStatusPending
	existing, err := s.planRepo.FindBySubscriptionID(db, id)
	if err == nil {
		current = existing.Status
	} else if !apperrors.Is(err, repositories.ErrPlanNotFound) {
		return apperrors.DatabaseError(err)
	}

	outcome := reconcile.Apply(current, ev)

	if outcome.Effect == reconcile.EffectStartPeriod {
		if err := s.startPeriod(ctx, db, preapproval, existing, outcome.Status); err != nil {
			return err
		}
	} else {
		// Status-only transitions (cancelled, paused) touch nothing else.
		if err := s.planRepo.UpdateStatusBySubscriptionID(db, id, outcome.Status); err != nil {
			if apperrors.Is(err, repositories.ErrPlanNotFound) {
				logger.CtxWarn(ctx, "preapproval matches no plan", "preapproval_id", id)
				return nil
			}
			return apperrors.DatabaseError(err)
		}
	}

	// Recorded per status so repeated deliveries of the same state collapse
	// while later status changes still leave a trail.
	event := &models.WebhookEvent{
		EventType:       "subscription_preapproval",
		ProviderEventID: fmt.Sprintf("%s:%s", id, preapproval.Status),
		SubscriptionID:  id,
		Outcome:         string(outcome.Status),
	}
	if err := s.eventRepo.Record(db, event); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// startPeriod upserts the full plan row from the fetched preapproval:
// status active, window recomputed from now.
func (s *webhookService) startPeriod(ctx context.Context, db *gorm.DB, preapproval *mercadopago.Preapproval, existing *models.UserPlan, status models.PlanStatus) error {
	userID := preapproval.ExternalReference
	if userID == "" && existing != nil {
		userID = existing.UserID
	}
	if userID == "" {
		logger.CtxWarn(ctx, "preapproval has no user reference", "preapproval_id", preapproval.ID)
		return nil
	}

	plan := &models.UserPlan{
		UserID:           userID,
		PlanName:         preapproval.Reason,
		Price:            preapproval.AutoRecurring.TransactionAmount,
		Currency:         preapproval.AutoRecurring.CurrencyID,
		Status:           status,
		SubscriptionID:   &preapproval.ID,
		BillingFrequency: preapproval.AutoRecurring.Frequency,
		BillingPeriod:    models.BillingPeriodMonths,
		BillingType:      models.BillingTypeMonthly,
	}
	if preapproval.AutoRecurring.FrequencyType == string(models.BillingPeriodYears) {
		plan.BillingPeriod = models.BillingPeriodYears
		plan.BillingType = models.BillingTypeAnnual
	}
	if tierName, ok := s.cfg.MercadoPago.PlanTiers[preapproval.PreapprovalPlanID]; ok {
		tier := models.PlanTier(tierName)
		plan.PlanTier = &tier
	} else if existing != nil {
		plan.PlanTier = existing.PlanTier
	}

	now := time.Now()
	end := plan.PeriodEnd(now)
	plan.SubscriptionStart = &now
	plan.SubscriptionEnd = &end

	if err := s.planRepo.Upsert(db, plan); err != nil {
		return apperrors.DatabaseError(err)
	}

	if user, err := s.userRepo.FindByID(db, userID); err == nil {
		if err := s.sender.SendSubscriptionActivated(user.Email, plan); err != nil {
			logger.CtxWithError(ctx, "activation email failed", err, "user_id", userID)
		}
	}

	logger.CtxInfo(ctx, "subscription reconciled",
		"preapproval_id", preapproval.ID, "user_id", userID, "status", status)
	return nil
}

func (s *webhookService) processPayment(ctx context.Context, db *gorm.DB, id string) error {
	if id == "" {
		logger.CtxWarn(ctx, "payment webhook without id")
		return nil
	}

	payment, err := s.provider.GetPayment(ctx, id)
	if err != nil {
		logger.CtxWithError(ctx, "payment fetch failed", err, "payment_id", id)
		return nil
	}

	ev, ok := reconcile.PaymentEvent(payment.Status)
	if !ok {
		logger.CtxInfo(ctx, "payment status not actionable",
			"payment_id", id, "status", payment.Status)
		return nil
	}

	if payment.PreapprovalID == "" {
		logger.CtxInfo(ctx, "payment without preapproval, skipping", "payment_id", id)
		return nil
	}

	paymentID := mercadopago.PaymentIDString(payment.ID)

	// Replay guard: an approved payment extends the window exactly once even
	// when the provider re-delivers the event.
	recorded, err := s.eventRepo.Recorded(db, "payment", paymentID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if recorded {
		logger.CtxInfo(ctx, "payment already processed", "payment_id", paymentID)
		return nil
	}

	plan, err := s.planRepo.FindBySubscriptionID(db, payment.PreapprovalID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			logger.CtxWarn(ctx, "payment matches no plan",
				"payment_id", paymentID, "preapproval_id", payment.PreapprovalID)
			return nil
		}
		return apperrors.DatabaseError(err)
	}

	outcome := reconcile.Apply(plan.Status, ev)

	fields := map[string]interface{}{"status": outcome.Status}
	if outcome.Effect == reconcile.EffectExtendPeriod {
		base := time.Now()
		if plan.SubscriptionEnd != nil && plan.SubscriptionEnd.After(base) {
			base = *plan.SubscriptionEnd
		}
		fields["subscription_end"] = plan.PeriodEnd(base)
	}

	if err := s.planRepo.UpdateFieldsByUserID(db, plan.UserID, fields); err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			logger.CtxWarn(ctx, "plan vanished during payment reconcile", "user_id", plan.UserID)
			return nil
		}
		return apperrors.DatabaseError(err)
	}

	event := &models.WebhookEvent{
		EventType:       "payment",
		ProviderEventID: paymentID,
		SubscriptionID:  payment.PreapprovalID,
		Outcome:         string(outcome.Status),
	}
	if err := s.eventRepo.Record(db, event); err != nil {
		return apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "payment reconciled",
		"payment_id", paymentID, "user_id", plan.UserID, "status", outcome.Status)
	return nil
}
