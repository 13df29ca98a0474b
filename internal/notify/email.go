// README: SMTP notification sink; delivers booking confirmations to staff.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/domodwyer/mailyak/v3"
	"go.uber.org/zap"

	"concierge/internal/config"
	"concierge/internal/modules/booking"
)

// ErrSimulated means SMTP credentials are absent and delivery was skipped.
// Callers treat it like any other delivery failure: log and move on.
var ErrSimulated = errors.New("smtp credentials missing (simulated)")

// EmailSink sends booking confirmations over SMTP.
type EmailSink struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func NewEmailSink(cfg config.SMTPConfig, log *zap.Logger) *EmailSink {
	return &EmailSink{cfg: cfg, log: log}
}

// BookingConfirmed delivers one confirmation email. Best-effort: any failure
// comes back as an error with a diagnostic, never as a panic or retry loop.
func (e *EmailSink) BookingConfirmed(_ context.Context, n booking.Notification) error {
	if e.cfg.Email == "" || e.cfg.Password == "" {
		return ErrSimulated
	}
	// Gmail app passwords are often pasted with spaces.
	password := strings.ReplaceAll(e.cfg.Password, " ", "")

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	mail := mailyak.New(addr, smtp.PlainAuth("", e.cfg.Email, password, e.cfg.Host))

	mail.From(e.cfg.Email)
	mail.To(e.cfg.NotifyTo)
	mail.Subject(fmt.Sprintf("New Booking: %s - Room %s", n.GuestLastName, n.RoomNumber))
	mail.Plain().Set(confirmationBody(n))

	if err := mail.Send(); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	e.log.Info("confirmation email sent",
		zap.String("guest", n.GuestLastName),
		zap.String("activity", n.Activity.ActivityName),
	)
	return nil
}

func confirmationBody(n booking.Notification) string {
	return fmt.Sprintf(`New Booking Confirmed
=====================

GUEST DETAILS:
- Last Name:   %s
- Room Number: %s

ACTIVITY DETAILS:
- Activity:    %s
- Date:        %s
- Day:         %s
- Time:        %s

Reference: %s
`,
		n.GuestLastName, n.RoomNumber,
		n.Activity.ActivityName, n.Activity.Date, n.Activity.Day, n.Activity.Time,
		n.Reference,
	)
}
