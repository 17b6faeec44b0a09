package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agencia_backend/internal/mercadopago"
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"

	"gorm.io/gorm"
)

// In-memory fakes for the repository and provider interfaces. Methods take
// the *gorm.DB parameter to satisfy the interfaces but never touch it, so
// service logic runs without a database.

type fakeProvider struct {
	preapprovals map[string]*mercadopago.Preapproval
	payments     map[string]*mercadopago.Payment
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		preapprovals: map[string]*mercadopago.Preapproval{},
		payments:     map[string]*mercadopago.Payment{},
	}
}

func (f *fakeProvider) GetPreapproval(ctx context.Context, id string) (*mercadopago.Preapproval, error) {
	if p, ok := f.preapprovals[id]; ok {
		return p, nil
	}
	return nil, errors.New("preapproval not found")
}

func (f *fakeProvider) GetPayment(ctx context.Context, id string) (*mercadopago.Payment, error) {
	if p, ok := f.payments[id]; ok {
		return p, nil
	}
	return nil, errors.New("payment not found")
}

func (f *fakeProvider) SearchPaymentsByPreapproval(ctx context.Context, preapprovalID string) (*mercadopago.PaymentSearchResult, error) {
	return &mercadopago.PaymentSearchResult{}, nil
}

func (f *fakeProvider) CreatePreapprovalPlan(ctx context.Context, req *mercadopago.CreatePlanRequest) (*mercadopago.Preapproval, error) {
	return &mercadopago.Preapproval{ID: "plan-created", Status: "pending"}, nil
}

func (f *fakeProvider) CreatePreapproval(ctx context.Context, req *mercadopago.CreatePreapprovalRequest) (*mercadopago.Preapproval, error) {
	return &mercadopago.Preapproval{
		ID:            "pre-created",
		Status:        "pending",
		InitPoint:     "https://checkout.example/pre-created",
		AutoRecurring: req.AutoRecurring,
	}, nil
}

type fakePlanRepo struct {
	plans map[string]*models.UserPlan // keyed by user id
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*models.UserPlan{}}
}

func (f *fakePlanRepo) Upsert(db *gorm.DB, plan *models.UserPlan) error {
	cp := *plan
	f.plans[plan.UserID] = &cp
	return nil
}

func (f *fakePlanRepo) FindByUserID(db *gorm.DB, userID string) (*models.UserPlan, error) {
	if p, ok := f.plans[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repositories.ErrPlanNotFound
}

func (f *fakePlanRepo) FindBySubscriptionID(db *gorm.DB, subscriptionID string) (*models.UserPlan, error) {
	for _, p := range f.plans {
		if p.SubscriptionID != nil && *p.SubscriptionID == subscriptionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlanNotFound
}

func (f *fakePlanRepo) UpdateStatusByUserID(db *gorm.DB, userID string, status models.PlanStatus) error {
	p, ok := f.plans[userID]
	if !ok {
		return repositories.ErrPlanNotFound
	}
	p.Status = status
	return nil
}

func (f *fakePlanRepo) UpdateStatusBySubscriptionID(db *gorm.DB, subscriptionID string, status models.PlanStatus) error {
	for _, p := range f.plans {
		if p.SubscriptionID != nil && *p.SubscriptionID == subscriptionID {
			p.Status = status
			return nil
		}
	}
	return repositories.ErrPlanNotFound
}

func (f *fakePlanRepo) UpdateFieldsByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error {
	p, ok := f.plans[userID]
	if !ok {
		return repositories.ErrPlanNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			p.Status = v.(models.PlanStatus)
		case "subscription_end":
			end := v.(time.Time)
			p.SubscriptionEnd = &end
		case "plan_name":
			p.PlanName = v.(string)
		case "plan_tier":
			tier := v.(models.PlanTier)
			p.PlanTier = &tier
		case "billing_type":
			p.BillingType = v.(models.BillingType)
		case "price":
			p.Price = v.(float64)
		case "billing_frequency":
			p.BillingFrequency = v.(int)
		}
	}
	return nil
}

func (f *fakePlanRepo) Save(db *gorm.DB, plan *models.UserPlan) error {
	return f.Upsert(db, plan)
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) List(db *gorm.DB, page, pageSize int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

type fakeEventRepo struct {
	recorded map[string]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{recorded: map[string]bool{}}
}

func (f *fakeEventRepo) Recorded(db *gorm.DB, eventType, providerEventID string) (bool, error) {
	return f.recorded[eventType+"|"+providerEventID], nil
}

func (f *fakeEventRepo) Record(db *gorm.DB, event *models.WebhookEvent) error {
	f.recorded[event.EventType+"|"+event.ProviderEventID] = true
	return nil
}

type fakeInvoiceRepo struct {
	invoices map[string]*models.Invoice
	seq      int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[string]*models.Invoice{}}
}

func (f *fakeInvoiceRepo) Create(db *gorm.DB, invoice *models.Invoice) error {
	last := ""
	for _, inv := range f.invoices {
		if inv.InvoiceNumber > last {
			last = inv.InvoiceNumber
		}
	}
	invoice.InvoiceNumber = repositories.NextInvoiceNumber(time.Now().Year(), last)
	f.seq++
	invoice.ID = fmt.Sprintf("inv-%d", f.seq)
	cp := *invoice
	f.invoices[invoice.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) FindByID(db *gorm.DB, id string) (*models.Invoice, error) {
	if inv, ok := f.invoices[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, repositories.ErrInvoiceNotFound
}

func (f *fakeInvoiceRepo) FindByUser(db *gorm.DB, userID string) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range f.invoices {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) List(db *gorm.DB, filters repositories.InvoiceFilters, page, pageSize int) ([]models.Invoice, int64, error) {
	var out []models.Invoice
	for _, inv := range f.invoices {
		if filters.UserID != "" && inv.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && inv.Status != filters.Status {
			continue
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	inv, ok := f.invoices[id]
	if !ok {
		return repositories.ErrInvoiceNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			inv.Status = v.(models.InvoiceStatus)
		case "payment_date":
			d := v.(time.Time)
			inv.PaymentDate = &d
		case "payment_method":
			inv.PaymentMethod = v.(string)
		case "notes":
			inv.Notes = v.(string)
		case "due_date":
			d := v.(time.Time)
			inv.DueDate = &d
		case "amount":
			inv.Amount = v.(float64)
		}
	}
	return nil
}

func (f *fakeInvoiceRepo) Delete(db *gorm.DB, id string) error {
	if _, ok := f.invoices[id]; !ok {
		return repositories.ErrInvoiceNotFound
	}
	delete(f.invoices, id)
	return nil
}

type fakeSender struct {
	invoiceIssued   int
	invoicePaid     int
	planActivations int
}

func (f *fakeSender) SendInvoiceIssued(to string, invoice *models.Invoice) error {
	f.invoiceIssued++
	return nil
}

func (f *fakeSender) SendInvoicePaid(to string, invoice *models.Invoice) error {
	f.invoicePaid++
	return nil
}

func (f *fakeSender) SendSubscriptionActivated(to string, plan *models.UserPlan) error {
	f.planActivations++
	return nil
}
