package services

import (
	"time"

	"agencia_backend/internal/email"
	"agencia_backend/internal/logger"
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type InvoiceService interface {
	Create(db *gorm.DB, req *models.CreateInvoiceRequest) (*models.Invoice, error)
	GetByID(db *gorm.DB, id string) (*models.Invoice, error)
	ListForUser(db *gorm.DB, userID string) ([]models.Invoice, error)
	List(db *gorm.DB, filters repositories.InvoiceFilters, page, pageSize int) ([]models.Invoice, int64, error)
	Update(db *gorm.DB, id string, req *models.UpdateInvoiceRequest) (*models.Invoice, error)
	Delete(db *gorm.DB, id string) error
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	userRepo    repositories.UserRepository
	sender      email.Sender
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, userRepo repositories.UserRepository, sender email.Sender) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo, userRepo: userRepo, sender: sender}
}

func (s *invoiceService) Create(db *gorm.DB, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	user, err := s.userRepo.FindByID(db, req.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "UYU"
	}

	invoice := &models.Invoice{
		UserID:             user.ID,
		Amount:             req.Amount,
		Currency:           currency,
		Status:             models.InvoiceStatusPending,
		BillingPeriodStart: req.BillingPeriodStart,
		BillingPeriodEnd:   req.BillingPeriodEnd,
		DueDate:            req.DueDate,
		Notes:              req.Notes,
	}

	if err := s.invoiceRepo.Create(db, invoice); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.sender.SendInvoiceIssued(user.Email, invoice); err != nil {
		logger.WithError(err).Warn("invoice email failed", "invoice", invoice.InvoiceNumber)
	}

	return invoice, nil
}

func (s *invoiceService) GetByID(db *gorm.DB, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return invoice, nil
}

func (s *invoiceService) ListForUser(db *gorm.DB, userID string) ([]models.Invoice, error) {
	invoices, err := s.invoiceRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return invoices, nil
}

func (s *invoiceService) List(db *gorm.DB, filters repositories.InvoiceFilters, page, pageSize int) ([]models.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.List(db, filters, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.DatabaseError(err)
	}
	return invoices, total, nil
}

// Update applies the non-nil fields. Marking an invoice paid defaults the
// payment date to now and notifies the client.
func (s *invoiceService) Update(db *gorm.DB, id string, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	fields := map[string]interface{}{}
	markedPaid := false

	if req.Status != nil {
		fields["status"] = *req.Status
		if *req.Status == models.InvoiceStatusPaid {
			markedPaid = true
			if req.PaymentDate == nil {
				fields["payment_date"] = time.Now()
			}
		}
	}
	if req.PaymentDate != nil {
		fields["payment_date"] = *req.PaymentDate
	}
	if req.PaymentMethod != nil {
		fields["payment_method"] = *req.PaymentMethod
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}

	if len(fields) > 0 {
		if err := s.invoiceRepo.Update(db, id, fields); err != nil {
			if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
				return nil, apperrors.ErrInvoiceNotFound
			}
			return nil, apperrors.DatabaseError(err)
		}
	}

	invoice, err := s.GetByID(db, id)
	if err != nil {
		return nil, err
	}

	if markedPaid {
		if user, err := s.userRepo.FindByID(db, invoice.UserID); err == nil {
			if err := s.sender.SendInvoicePaid(user.Email, invoice); err != nil {
				logger.WithError(err).Warn("payment email failed", "invoice", invoice.InvoiceNumber)
			}
		}
	}

	return invoice, nil
}

func (s *invoiceService) Delete(db *gorm.DB, id string) error {
	if err := s.invoiceRepo.Delete(db, id); err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return apperrors.ErrInvoiceNotFound
		}
		return apperrors.DatabaseError(err)
	}
	return nil
}
