package notify

import (
	"context"
	"errors"
	"time"

	"bizsuite/internal/entity"
)

// Mailer delivers the account and inventory emails the platform sends.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string, expiresAt time.Time) error
	SendEmailVerification(ctx context.Context, to, token string) error
	SendLowStockAlert(ctx context.Context, to string, products []entity.DbProduct) error
}

type disabledMailer struct {
	reason string
}

// NewDisabledMailer returns a Mailer that fails every send with the given
// reason. Used when SMTP is not configured so callers keep a uniform path.
func NewDisabledMailer(reason string) Mailer {
	return &disabledMailer{reason: reason}
}

func (m *disabledMailer) err() error {
	if m.reason == "" {
		return errors.New("mailer disabled")
	}
	return errors.New(m.reason)
}

func (m *disabledMailer) SendPasswordReset(_ context.Context, _, _ string, _ time.Time) error {
	return m.err()
}

func (m *disabledMailer) SendEmailVerification(_ context.Context, _, _ string) error {
	return m.err()
}

func (m *disabledMailer) SendLowStockAlert(_ context.Context, _ string, _ []entity.DbProduct) error {
	return m.err()
}
