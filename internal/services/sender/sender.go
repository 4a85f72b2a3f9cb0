// Package sender отправляет покупателям почтовые приглашения оставить отзыв.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/lib/smtp"
	"github.com/level-4u/level-backend/internal/models"
)

// Service потребляет сообщения очереди приглашений и шлёт письма по SMTP.
type Service struct {
	transport smtp.Mailer
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.Mailer, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendReviewInvite разбирает сообщение очереди и отправляет покупателю
// письмо со ссылкой на форму отзыва.
func (s *Service) SendReviewInvite(body []byte) error {
	var message models.ReviewInvite
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.CustomerEmail}
	subject := fmt.Sprintf("How was your order %s from %s?", message.OrderID, message.BusinessName)
	bodyText := fmt.Sprintf(`Hello, %s!

Thank you for your order %s from %s.

We would love to hear about your experience. It only takes a minute:
%s

The link works once and is tied to your order.`,
		message.CustomerName, message.OrderID, message.BusinessName, message.ReviewURL)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.SenderAddress(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.transport.SenderAddress()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("review invite sent", "to", to)
	return nil
}
