// README: Booking service tests for the free/paid split and payment confirmation.
package booking

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"concierge/internal/ai"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/guest"
)

type fakeRecorder struct {
	created []Record
	paid    map[string]string
	err     error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{paid: map[string]string{}}
}

func (f *fakeRecorder) Create(_ context.Context, r *Record) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *r)
	return nil
}

func (f *fakeRecorder) MarkPaid(_ context.Context, id, reference string) error {
	if f.err != nil {
		return f.err
	}
	f.paid[id] = reference
	return nil
}

type fakeNotifier struct {
	sent []Notification
	err  error
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, n Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

var referencePattern = regexp.MustCompile(`^[0-9]{6}$`)

func freeActivity() ai.Recommendation {
	return ai.Recommendation{
		Day:          "Wednesday",
		Date:         "2026-03-04",
		Time:         "09:00",
		ActivityName: "Aqua Aerobics",
		Price:        "Free",
		Description:  "Pool workout.",
	}
}

func paidActivity() ai.Recommendation {
	return ai.Recommendation{
		Day:          "Friday",
		Date:         "2026-03-06",
		Time:         "19:00",
		ActivityName: "Whiskey Tasting",
		Price:        "300 AED",
		Description:  "Guided tasting flight.",
	}
}

func testSession() *conversation.Session {
	return &conversation.Session{
		ID: "S-1",
		Guest: guest.Profile{
			ID:         "G-102",
			LastName:   "Johnson",
			RoomNumber: "402",
		},
		Stage: conversation.StageResult,
	}
}

func TestBookFreeAutoConfirms(t *testing.T) {
	rec, not := newFakeRecorder(), &fakeNotifier{}
	svc := NewService(rec, not, zap.NewNop())
	sess := testSession()

	out, err := svc.Book(context.Background(), sess, freeActivity())
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if out.Status != StatusAutoConfirmed {
		t.Fatalf("expected auto_confirmed, got %s", out.Status)
	}
	if !referencePattern.MatchString(out.Reference) {
		t.Fatalf("expected a 6-digit reference, got %q", out.Reference)
	}

	// one user message, one confirmation, nothing else
	if len(sess.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sess.Messages))
	}
	conf := sess.Messages[1]
	if conf.Kind != conversation.KindConfirmation {
		t.Fatalf("expected confirmation message, got %s", conf.Kind)
	}
	if !strings.Contains(conf.Text, out.Reference) {
		t.Errorf("confirmation text should carry the reference: %q", conf.Text)
	}

	if len(not.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(not.sent))
	}
	n := not.sent[0]
	if n.GuestLastName != "Johnson" || n.RoomNumber != "402" || n.Reference != out.Reference {
		t.Errorf("notification fields wrong: %+v", n)
	}

	if len(rec.created) != 1 {
		t.Fatalf("expected one record, got %d", len(rec.created))
	}
	r := rec.created[0]
	if r.Status != StatusAutoConfirmed || r.Reference != out.Reference || r.ID != conf.ID {
		t.Errorf("record fields wrong: %+v", r)
	}
}

func TestBookFreeSurvivesNotifierFailure(t *testing.T) {
	svc := NewService(newFakeRecorder(), &fakeNotifier{err: errors.New("smtp down")}, zap.NewNop())
	sess := testSession()

	out, err := svc.Book(context.Background(), sess, freeActivity())
	if err != nil {
		t.Fatalf("notifier failure must not fail the booking: %v", err)
	}
	if out.Status != StatusAutoConfirmed {
		t.Fatalf("expected auto_confirmed, got %s", out.Status)
	}
}

func TestBookPaidPendsPayment(t *testing.T) {
	rec, not := newFakeRecorder(), &fakeNotifier{}
	svc := NewService(rec, not, zap.NewNop())
	sess := testSession()

	out, err := svc.Book(context.Background(), sess, paidActivity())
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if out.Status != StatusPendingPayment {
		t.Fatalf("expected pending_payment, got %s", out.Status)
	}
	if out.Reference != "" {
		t.Fatalf("reference must not exist before payment, got %q", out.Reference)
	}
	if len(not.sent) != 0 {
		t.Fatal("no notification should fire before payment")
	}

	req := sess.Messages[len(sess.Messages)-1]
	if req.Kind != conversation.KindPaymentRequest {
		t.Fatalf("expected payment_request message, got %s", req.Kind)
	}
	if req.Payment == nil || req.Payment.Paid {
		t.Fatalf("payment request must start unpaid: %+v", req.Payment)
	}
	if req.ID != out.MessageID {
		t.Errorf("outcome must point at the payment request message")
	}

	if len(rec.created) != 1 || rec.created[0].Status != StatusPendingPayment {
		t.Fatalf("expected one pending record, got %+v", rec.created)
	}
	if rec.created[0].Reference != "" {
		t.Errorf("pending record must have no reference yet")
	}

	if sess.PendingBooking == nil || sess.PendingBooking.ActivityName != "Whiskey Tasting" {
		t.Fatalf("paid booking must be stashed as pending, got %+v", sess.PendingBooking)
	}
}

func TestConfirmPayment(t *testing.T) {
	rec, not := newFakeRecorder(), &fakeNotifier{}
	svc := NewService(rec, not, zap.NewNop())
	sess := testSession()

	booked, err := svc.Book(context.Background(), sess, paidActivity())
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	out, err := svc.ConfirmPayment(context.Background(), sess, booked.MessageID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if out.Status != StatusPaid {
		t.Fatalf("expected paid, got %s", out.Status)
	}
	if !referencePattern.MatchString(out.Reference) {
		t.Fatalf("reference is generated at confirmation time, got %q", out.Reference)
	}

	req := sess.Messages[len(sess.Messages)-1]
	if req.Payment == nil || !req.Payment.Paid || req.Payment.Reference != out.Reference {
		t.Fatalf("payment request not flipped in place: %+v", req.Payment)
	}

	if len(not.sent) != 1 || not.sent[0].Activity.ActivityName != "Whiskey Tasting" {
		t.Fatalf("expected one notification for the paid activity, got %+v", not.sent)
	}
	if got := rec.paid[booked.MessageID]; got != out.Reference {
		t.Fatalf("MarkPaid not recorded: %q", got)
	}
	if sess.PendingBooking != nil {
		t.Fatalf("confirmation must clear the pending booking, got %+v", sess.PendingBooking)
	}
}

func TestConfirmPaymentTwice(t *testing.T) {
	svc := NewService(newFakeRecorder(), &fakeNotifier{}, zap.NewNop())
	sess := testSession()

	booked, _ := svc.Book(context.Background(), sess, paidActivity())
	if _, err := svc.ConfirmPayment(context.Background(), sess, booked.MessageID); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if _, err := svc.ConfirmPayment(context.Background(), sess, booked.MessageID); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestConfirmPaymentUnknownMessage(t *testing.T) {
	svc := NewService(newFakeRecorder(), &fakeNotifier{}, zap.NewNop())
	sess := testSession()

	if _, err := svc.ConfirmPayment(context.Background(), sess, "nope"); !errors.Is(err, ErrNoSuchPayment) {
		t.Fatalf("expected ErrNoSuchPayment, got %v", err)
	}

	// a plain text message with the right ID must not be treated as a payment
	msg := conversation.NewTextMessage(conversation.RoleAssistant, "hello")
	sess.Append(msg)
	if _, err := svc.ConfirmPayment(context.Background(), sess, msg.ID); !errors.Is(err, ErrNoSuchPayment) {
		t.Fatalf("expected ErrNoSuchPayment for non-payment message, got %v", err)
	}
}

// Booking the same activity twice is two independent bookings; there is no
// dedup at this layer.
func TestBookTwiceNoDedup(t *testing.T) {
	rec := newFakeRecorder()
	svc := NewService(rec, &fakeNotifier{}, zap.NewNop())
	sess := testSession()

	if _, err := svc.Book(context.Background(), sess, freeActivity()); err != nil {
		t.Fatalf("first book: %v", err)
	}
	if _, err := svc.Book(context.Background(), sess, freeActivity()); err != nil {
		t.Fatalf("second book: %v", err)
	}
	if len(rec.created) != 2 {
		t.Fatalf("expected two records, got %d", len(rec.created))
	}
}

func TestBookSupersedesPendingBooking(t *testing.T) {
	svc := NewService(nil, nil, zap.NewNop())
	sess := testSession()

	// An unpaid selection left behind, then a free booking: the free path
	// must consume the stale pending entry.
	if _, err := svc.Book(context.Background(), sess, paidActivity()); err != nil {
		t.Fatalf("book paid: %v", err)
	}
	if sess.PendingBooking == nil {
		t.Fatal("expected a pending booking after the paid selection")
	}
	if _, err := svc.Book(context.Background(), sess, freeActivity()); err != nil {
		t.Fatalf("book free: %v", err)
	}
	if sess.PendingBooking != nil {
		t.Fatal("free booking should clear the pending entry")
	}
}

func TestIsFree(t *testing.T) {
	cases := []struct {
		price string
		want  bool
	}{
		{"Free", true},
		{"free", true},
		{" FREE ", true},
		{"300 AED", false},
		{"50 AED", false},
		{"", false},
		{"Freely priced", false},
	}
	for _, tc := range cases {
		if got := IsFree(tc.price); got != tc.want {
			t.Errorf("IsFree(%q) = %v, want %v", tc.price, got, tc.want)
		}
	}
}

func TestNewReferenceFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := NewReference()
		if !referencePattern.MatchString(ref) {
			t.Fatalf("reference %q is not 6 digits", ref)
		}
		if ref[0] == '0' {
			t.Fatalf("reference %q has a leading zero", ref)
		}
	}
}
