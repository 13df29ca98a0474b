// README: Booking handler; free activities auto-confirm, priced ones go
// through an explicit payment confirmation.
package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"concierge/internal/ai"
	"concierge/internal/modules/conversation"
)

var (
	ErrNoSuchPayment = errors.New("no pending payment request with that message id")
	ErrAlreadyPaid   = errors.New("payment request already confirmed")
)

type Service struct {
	recorder Recorder
	notifier Notifier
	log      *zap.Logger
}

// NewService creates the booking handler. recorder and notifier may be nil;
// both are best-effort collaborators.
func NewService(recorder Recorder, notifier Notifier, log *zap.Logger) *Service {
	return &Service{recorder: recorder, notifier: notifier, log: log}
}

// IsFree reports whether a price string selects the auto-confirm path.
// Matching is case- and space-insensitive ("Free", " free ", "FREE").
func IsFree(price string) bool {
	return strings.EqualFold(strings.TrimSpace(price), "free")
}

// NewReference generates a 6-digit booking reference. References are
// independently random per booking; uniqueness within a session is not
// guaranteed (a collision is cosmetic, not a correctness problem).
func NewReference() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process is in much worse trouble
		// than a booking reference.
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// Book handles the guest's selection, superseding any earlier pending
// booking. Free activities confirm immediately; anything priced is stashed as
// the session's pending booking alongside an unpaid payment request and waits
// for ConfirmPayment.
func (s *Service) Book(ctx context.Context, sess *conversation.Session, act ai.Recommendation) (Outcome, error) {
	sess.PendingBooking = nil

	sess.Append(conversation.NewTextMessage(conversation.RoleUser,
		fmt.Sprintf("I would like to book **%s** for %s.", act.ActivityName, act.Price)))

	if !IsFree(act.Price) {
		sess.PendingBooking = &act
		msg := conversation.NewPaymentRequestMessage(act)
		sess.Append(msg)
		s.persist(ctx, &Record{
			ID:           msg.ID,
			SessionID:    sess.ID,
			GuestID:      sess.Guest.ID,
			ActivityName: act.ActivityName,
			ActivityDay:  act.Day,
			ActivityDate: act.Date,
			ActivityTime: act.Time,
			Price:        act.Price,
			Status:       StatusPendingPayment,
			CreatedAt:    time.Now(),
		})
		return Outcome{Status: StatusPendingPayment, MessageID: msg.ID}, nil
	}

	ref := NewReference()
	s.notify(ctx, sess, act, ref)

	msg := conversation.NewConfirmationMessage(fmt.Sprintf(
		"Booking Confirmed!\n\nYou have been booked for **%s**.\nReference Number: %s\n\n"+
			"We have sent the confirmation details to the front desk.",
		act.ActivityName, ref,
	))
	sess.Append(msg)
	s.persist(ctx, &Record{
		ID:           msg.ID,
		SessionID:    sess.ID,
		GuestID:      sess.Guest.ID,
		ActivityName: act.ActivityName,
		ActivityDay:  act.Day,
		ActivityDate: act.Date,
		ActivityTime: act.Time,
		Price:        act.Price,
		Reference:    ref,
		Status:       StatusAutoConfirmed,
		CreatedAt:    time.Now(),
	})
	return Outcome{Status: StatusAutoConfirmed, Reference: ref, MessageID: msg.ID}, nil
}

// ConfirmPayment finalizes a pending payment request: it flips the message to
// paid, generates the reference at this moment, and fires the confirmation
// side effect.
func (s *Service) ConfirmPayment(ctx context.Context, sess *conversation.Session, messageID string) (Outcome, error) {
	var msg *conversation.Message
	for i := range sess.Messages {
		if sess.Messages[i].ID == messageID && sess.Messages[i].Kind == conversation.KindPaymentRequest {
			msg = &sess.Messages[i]
			break
		}
	}
	if msg == nil {
		return Outcome{}, ErrNoSuchPayment
	}
	if msg.Payment.Paid {
		return Outcome{}, ErrAlreadyPaid
	}

	ref := NewReference()
	msg.Payment.Paid = true
	msg.Payment.Reference = ref
	sess.PendingBooking = nil

	s.notify(ctx, sess, msg.Payment.Activity, ref)
	if s.recorder != nil {
		if err := s.recorder.MarkPaid(ctx, messageID, ref); err != nil {
			s.log.Warn("booking record update failed",
				zap.String("booking_id", messageID),
				zap.Error(err),
			)
		}
	}
	return Outcome{Status: StatusPaid, Reference: ref, MessageID: messageID}, nil
}

// notify is the best-effort confirmation side effect. Failure is logged and
// surfaced nowhere else; the booking stands.
func (s *Service) notify(ctx context.Context, sess *conversation.Session, act ai.Recommendation, ref string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.BookingConfirmed(ctx, Notification{
		GuestLastName: sess.Guest.LastName,
		RoomNumber:    sess.Guest.RoomNumber,
		Activity:      act,
		Reference:     ref,
	})
	if err != nil {
		s.log.Warn("booking notification failed",
			zap.String("session_id", string(sess.ID)),
			zap.String("activity", act.ActivityName),
			zap.Error(err),
		)
	}
}

func (s *Service) persist(ctx context.Context, r *Record) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Create(ctx, r); err != nil {
		s.log.Warn("booking record insert failed",
			zap.String("booking_id", r.ID),
			zap.Error(err),
		)
	}
}
