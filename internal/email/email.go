// Package email sends transactional mail for billing events. When SMTP is
// not configured the sender degrades to a logger so flows that email as a
// side effect keep working in development.
package email

import (
	"fmt"

	"agencia_backend/internal/config"
	"agencia_backend/internal/logger"
	"agencia_backend/internal/models"

	"gopkg.in/gomail.v2"
)

// Sender delivers billing notifications to clients.
type Sender interface {
	SendInvoiceIssued(to string, invoice *models.Invoice) error
	SendInvoicePaid(to string, invoice *models.Invoice) error
	SendSubscriptionActivated(to string, plan *models.UserPlan) error
}

// NewSender returns an SMTP sender, or a no-op one when SMTP is unconfigured.
func NewSender(cfg *config.Config) Sender {
	if cfg.Email.SMTPHost == "" {
		return &noopSender{}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.SMTPUsername, cfg.Email.SMTPPassword),
		from:     cfg.Email.FromEmail,
		fromName: cfg.Email.FromName,
	}
}

type smtpSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func (s *smtpSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpSender) SendInvoiceIssued(to string, invoice *models.Invoice) error {
	subject := fmt.Sprintf("Factura %s emitida", invoice.InvoiceNumber)
	body := fmt.Sprintf(
		"<p>Se ha emitido la factura <strong>%s</strong> por %.2f %s.</p>"+
			"<p>Puede consultar el detalle en su portal de cliente.</p>",
		invoice.InvoiceNumber, invoice.Amount, invoice.Currency)
	return s.send(to, subject, body)
}

func (s *smtpSender) SendInvoicePaid(to string, invoice *models.Invoice) error {
	subject := fmt.Sprintf("Factura %s pagada", invoice.InvoiceNumber)
	body := fmt.Sprintf(
		"<p>Registramos el pago de la factura <strong>%s</strong> por %.2f %s. Gracias.</p>",
		invoice.InvoiceNumber, invoice.Amount, invoice.Currency)
	return s.send(to, subject, body)
}

func (s *smtpSender) SendSubscriptionActivated(to string, plan *models.UserPlan) error {
	subject := "Suscripción activada"
	body := fmt.Sprintf(
		"<p>Su plan <strong>%s</strong> está activo.</p>"+
			"<p>Precio: %.2f %s.</p>",
		plan.PlanName, plan.Price, plan.Currency)
	return s.send(to, subject, body)
}

type noopSender struct{}

func (n *noopSender) SendInvoiceIssued(to string, invoice *models.Invoice) error {
	logger.Info("email skipped (SMTP not configured)", "kind", "invoice_issued", "to", to, "invoice", invoice.InvoiceNumber)
	return nil
}

func (n *noopSender) SendInvoicePaid(to string, invoice *models.Invoice) error {
	logger.Info("email skipped (SMTP not configured)", "kind", "invoice_paid", "to", to, "invoice", invoice.InvoiceNumber)
	return nil
}

func (n *noopSender) SendSubscriptionActivated(to string, plan *models.UserPlan) error {
	logger.Info("email skipped (SMTP not configured)", "kind", "subscription_activated", "to", to, "plan", plan.PlanName)
	return nil
}
