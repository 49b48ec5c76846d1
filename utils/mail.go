package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Kariqs/digistore-api/models"
)

type MailConfig struct {
	// Address is host:port of the SMTP server.
	Address  string
	Host     string
	From     string
	Password string
	SiteURL  string
}

func (c MailConfig) Enabled() bool {
	return c.Address != "" && c.From != ""
}

type ReceiptData struct {
	OrderID   uint
	Total     string
	Items     []models.OrderItem
	OrdersURL string
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif">
  <h2>Thank you for your purchase!</h2>
  <p>Your order #{{.OrderID}} is complete.</p>
  <table cellpadding="6">
    <tr><th align="left">Product</th><th>Qty</th><th align="right">Price</th></tr>
    {{range .Items}}<tr><td>{{if .Product}}{{.Product.Title}}{{else}}Product #{{.ProductID}}{{end}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.Price}}</td></tr>
    {{end}}
  </table>
  <p><strong>Total: {{.Total}}</strong></p>
  <p>Your downloads are available at <a href="{{.OrdersURL}}">{{.OrdersURL}}</a>.</p>
</body>
</html>`))

// sendMailFunc is swapped in tests.
var sendMailFunc = smtp.SendMail

// Mailer sends order receipts over SMTP.
type Mailer struct {
	config MailConfig
}

func NewMailer(config MailConfig) *Mailer {
	return &Mailer{config: config}
}

func (m *Mailer) OrderCreated(_ context.Context, order *models.Order) error {
	if !m.config.Enabled() {
		return nil
	}
	data := ReceiptData{
		OrderID:   order.ID,
		Total:     order.TotalAmount,
		Items:     order.OrderItems,
		OrdersURL: m.config.SiteURL + "/orders",
	}
	return m.SendEmail(order.UserEmail, fmt.Sprintf("Your order #%d", order.ID), data)
}

func (m *Mailer) SendEmail(emailTo string, emailSubject string, data ReceiptData) error {
	var body bytes.Buffer
	if err := receiptTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.config.From,
		emailTo,
		emailSubject,
		body.String(),
	)

	var auth smtp.Auth
	if m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.From, m.config.Password, m.config.Host)
	}

	if err := sendMailFunc(m.config.Address, auth, m.config.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
