package repositories

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"agencia_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceFilters struct {
	UserID string
	Status models.InvoiceStatus
}

type InvoiceRepository interface {
	Create(db *gorm.DB, invoice *models.Invoice) error
	FindByID(db *gorm.DB, id string) (*models.Invoice, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Invoice, error)
	List(db *gorm.DB, filters InvoiceFilters, page, pageSize int) ([]models.Invoice, int64, error)
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
}

type invoiceRepository struct{}

func NewInvoiceRepository() InvoiceRepository {
	return &invoiceRepository{}
}

// Create assigns the next INV-YYYY-NNN number and inserts, inside one
// transaction. The highest existing row for the year is read under
// FOR UPDATE so two concurrent creations serialize instead of computing
// the same suffix.
func (r *invoiceRepository) Create(db *gorm.DB, invoice *models.Invoice) error {
	return db.Transaction(func(tx *gorm.DB) error {
		year := time.Now().Year()
		prefix := fmt.Sprintf("INV-%d-", year)

		var last models.Invoice
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("invoice_number LIKE ?", prefix+"%").
			Order("invoice_number DESC").
			First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		invoice.InvoiceNumber = NextInvoiceNumber(year, last.InvoiceNumber)
		return tx.Create(invoice).Error
	})
}

// NextInvoiceNumber computes the successor of the highest invoice number for
// the year. An empty last value starts the year at 001.
func NextInvoiceNumber(year int, last string) string {
	seq := 1
	prefix := fmt.Sprintf("INV-%d-", year)
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq)
}

func (r *invoiceRepository) FindByID(db *gorm.DB, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByUser(db *gorm.DB, userID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := db.Where("user_id = ?", userID).
		Order("invoice_number DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) List(db *gorm.DB, filters InvoiceFilters, page, pageSize int) ([]models.Invoice, int64, error) {
	query := db.Model(&models.Invoice{})
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []models.Invoice
	err := query.Preload("User").
		Order("invoice_number DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := db.Model(&models.Invoice{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
