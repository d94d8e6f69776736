package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"foil-records-server/config"
	"foil-records-server/internal/util"
)

// MailService : доставка писем по SMTP
type MailService struct {
	cfg *config.SMTPConfig
}

func NewMailService(cfg *config.SMTPConfig) *MailService {
	return &MailService{cfg: cfg}
}

// Send : отправляет одно письмо всем получателям
func (s *MailService) Send(ctx context.Context, recipients []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	message.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ", ")))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := smtp.SendMail(addr, auth, s.cfg.From, recipients, []byte(message.String())); err != nil {
		return util.LogError("[MailService] ошибка отправки письма", err)
	}

	return nil
}
