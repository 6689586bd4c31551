package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"bizsuite/internal/config"
	"bizsuite/internal/entity"
)

// SMTPMailer sends mail over plain SMTP or implicit TLS.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool
}

// NewSMTPMailer builds a mailer from the SMTP configuration block.
func NewSMTPMailer(cfg config.Config) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(cfg.SMTPFrom) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     port,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		useTLS:   cfg.SMTPUseTLS,
	}, nil
}

// InitMailer returns an SMTP mailer when configured, otherwise a disabled one.
func InitMailer(cfg config.Config) Mailer {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return NewDisabledMailer("smtp not configured")
	}
	mailer, err := NewSMTPMailer(cfg)
	if err != nil {
		return NewDisabledMailer(err.Error())
	}
	return mailer
}

// SendPasswordReset mails the reset link with its expiry.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string, expiresAt time.Time) error {
	subject := "Password reset"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nReset link: %s\n\nThe link expires at %s UTC. If you did not request this, you can ignore this email.\n",
		link,
		expiresAt.UTC().Format(time.RFC3339),
	)
	return m.send(ctx, to, subject, body)
}

// SendEmailVerification mails the verification token for a new account.
func (m *SMTPMailer) SendEmailVerification(ctx context.Context, to, token string) error {
	subject := "Verify your email"
	body := fmt.Sprintf(
		"Welcome! Please verify your email address.\n\nVerification code: %s\n",
		token,
	)
	return m.send(ctx, to, subject, body)
}

// SendLowStockAlert mails a supplier the list of products that need restocking.
func (m *SMTPMailer) SendLowStockAlert(ctx context.Context, to string, products []entity.DbProduct) error {
	if len(products) == 0 {
		return nil
	}
	var lines strings.Builder
	lines.WriteString("The following products are low on stock:\n\n")
	for _, p := range products {
		fmt.Fprintf(&lines, "- %s: %d remaining\n", p.Name, p.Quantity)
	}
	lines.WriteString("\nPlease arrange a restock.\n")
	return m.send(ctx, to, "Low stock alert", lines.String())
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("to email is required")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := buildMessage(m.from, m.fromName, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if m.useTLS {
		conn, err := tls.Dial("tcp", addr, &tls.Config{
			ServerName: m.host,
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, m.host)
		if err != nil {
			return err
		}
		defer client.Quit()

		if auth != nil {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
		if err := client.Mail(m.from); err != nil {
			return err
		}
		if err := client.Rcpt(to); err != nil {
			return err
		}
		writer, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := writer.Write([]byte(msg)); err != nil {
			_ = writer.Close()
			return err
		}
		return writer.Close()
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}

var _ Mailer = (*SMTPMailer)(nil)
