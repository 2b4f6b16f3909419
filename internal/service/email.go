package service

import (
	"context"
	"fmt"
	"html"

	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/utils"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
)

// sendFunc delivers a message and reports the provider status code and body
type sendFunc func(ctx context.Context, message *mail.SGMailV3) (int, string, error)

type emailService struct {
	fromEmail string
	fromName  string
	currency  string
	send      sendFunc
}

func NewEmailService(apiKey, fromEmail, fromName, currency string) EmailService {
	client := sendgrid.NewSendClient(apiKey)
	return &emailService{
		fromEmail: fromEmail,
		fromName:  fromName,
		currency:  currency,
		send: func(ctx context.Context, message *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, message)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
	}
}

func (s *emailService) SendFineReminder(ctx context.Context, email, name string, outstanding decimal.Decimal, fineCount int64) error {
	if email == "" {
		return fmt.Errorf("member %q has no email address", name)
	}

	subject := "Outstanding library fines"
	amount := utils.FormatMoney(outstanding, s.currency)
	plain := fmt.Sprintf("Hello %s,\n\nOur records show %d unpaid fine(s) on your library account, totalling %s.\n\nPlease settle them at the front desk at your next visit.\n\nThank you,\nThe Library", name, fineCount, amount)
	htmlContent := fmt.Sprintf("<p>Hello %s,</p><p>Our records show <strong>%d</strong> unpaid fine(s) on your library account, totalling <strong>%s</strong>.</p><p>Please settle them at the front desk at your next visit.</p><p>Thank you,<br>The Library</p>",
		html.EscapeString(name), fineCount, html.EscapeString(amount))

	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), subject, mail.NewEmail(name, email), plain, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", email)
	status, body, err := s.send(ctx, message)
	if err == nil && status >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", status, body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "to", email, "status", status)
	if err != nil {
		return fmt.Errorf("failed to send fine reminder: %w", err)
	}
	return nil
}
