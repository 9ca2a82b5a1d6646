package providers

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"forecastapi.app/config"
	"forecastapi.app/errors"
)

// SMTPEmailProvider implements EmailProvider using net/smtp with plain auth.
type SMTPEmailProvider struct {
	cfg *config.EmailConfig
}

// NewSMTPEmailProvider creates a new SMTP email provider
func NewSMTPEmailProvider(cfg *config.EmailConfig) *SMTPEmailProvider {
	return &SMTPEmailProvider{cfg: cfg}
}

// SendEmail sends a single message to one recipient.
func (p *SMTPEmailProvider) SendEmail(to, subject, body string, isHTML bool) error {
	if to == "" {
		return errors.NewValidationError("recipient email cannot be empty")
	}
	if subject == "" {
		return errors.NewValidationError("email subject cannot be empty")
	}

	message := p.buildMessage(to, subject, body, isHTML)
	addr := fmt.Sprintf("%s:%d", p.cfg.SMTPHost, p.cfg.SMTPPort)
	auth := smtp.PlainAuth("", p.cfg.SMTPUsername, p.cfg.SMTPPassword, p.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, p.cfg.FromAddress, []string{to}, message); err != nil {
		slog.Warn("smtp send failed", "to", to, "error", err)
		return errors.NewEmailError("failed to send email", err)
	}

	return nil
}

func (p *SMTPEmailProvider) buildMessage(to, subject, body string, isHTML bool) []byte {
	contentType := "text/plain"
	if isHTML {
		contentType = "text/html"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", sanitizeHeader(p.cfg.FromName), p.cfg.FromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", sanitizeHeader(to))
	fmt.Fprintf(&msg, "Subject: %s\r\n", sanitizeHeader(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s; charset=UTF-8\r\n\r\n", contentType)
	msg.WriteString(body)

	return []byte(msg.String())
}

// sanitizeHeader strips line breaks so user-supplied values cannot inject
// additional headers.
func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", "")
	return strings.ReplaceAll(value, "\n", "")
}
