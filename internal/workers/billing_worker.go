package workers

import (
	"context"
	"time"

	"agencia_backend/internal/logger"

	"gorm.io/gorm"
)

// BillingWorker is the safety net for state the provider never pushed: it
// expires active plans whose paid window has passed and flips pending
// invoices past their due date to overdue.
type BillingWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewBillingWorker(db *gorm.DB) *BillingWorker {
	return &BillingWorker{db: db, interval: 6 * time.Hour}
}

func (w *BillingWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *BillingWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("billing worker stopped")
			return
		case <-ticker.C:
			w.expirePlans()
			w.markOverdueInvoices()
		}
	}
}

func (w *BillingWorker) expirePlans() {
	result := w.db.Exec(`
		UPDATE user_plans
		SET status = 'inactive', updated_at = NOW()
		WHERE status = 'active'
		AND subscription_end IS NOT NULL
		AND subscription_end < NOW()
	`)
	logger.WorkerLog("billing", "expire_plans", result.Error)
	if result.Error == nil && result.RowsAffected > 0 {
		logger.Info("expired plans marked inactive", "count", result.RowsAffected)
	}
}

func (w *BillingWorker) markOverdueInvoices() {
	result := w.db.Exec(`
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending'
		AND due_date IS NOT NULL
		AND due_date < NOW()
	`)
	logger.WorkerLog("billing", "mark_overdue_invoices", result.Error)
	if result.Error == nil && result.RowsAffected > 0 {
		logger.Info("pending invoices marked overdue", "count", result.RowsAffected)
	}
}
