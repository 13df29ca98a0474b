// README: Booking records, outcomes, and collaborator contracts.
package booking

import (
	"context"
	"time"

	"concierge/internal/ai"
	"concierge/internal/types"
)

type Status string

const (
	StatusAutoConfirmed  Status = "auto_confirmed"
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
)

// Record is the persisted booking. Its ID is the ID of the chat message that
// carries the confirmation or payment request, which keys the later payment
// confirmation back to the right row.
type Record struct {
	ID           string
	SessionID    types.ID
	GuestID      types.ID
	ActivityName string
	ActivityDay  string
	ActivityDate string
	ActivityTime string
	Price        string
	Reference    string
	Status       Status
	CreatedAt    time.Time
}

// Outcome reports what a booking request produced.
type Outcome struct {
	Status Status
	// Reference is empty while payment is pending; it is generated at
	// confirmation time, not earlier.
	Reference string
	MessageID string
}

// Notification is handed to the sink after a booking is finalized.
type Notification struct {
	GuestLastName string
	RoomNumber    string
	Activity      ai.Recommendation
	Reference     string
}

// Notifier delivers the confirmation side effect. Delivery is best-effort;
// failures are surfaced as diagnostics, never as booking failures.
type Notifier interface {
	BookingConfirmed(ctx context.Context, n Notification) error
}

// Recorder persists booking records.
type Recorder interface {
	Create(ctx context.Context, r *Record) error
	MarkPaid(ctx context.Context, id, reference string) error
}
