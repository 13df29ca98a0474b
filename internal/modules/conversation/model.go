// README: Conversation session aggregate and stage definitions.
package conversation

import (
	"time"

	"github.com/google/uuid"

	"concierge/internal/ai"
	"concierge/internal/modules/guest"
	"concierge/internal/types"
)

type Stage string

const (
	StageGreeting    Stage = "greeting"
	StageOfferHelp   Stage = "offer_help"
	StagePreference  Stage = "preference"
	StagePersonalize Stage = "personalize_q_and_a"
	StageResult      Stage = "result"
	// StageFollowup is the terminal loop for open-ended questions after
	// results were shown (or after the guest declined help).
	StageFollowup Stage = "followup"
	StageEnded    Stage = "ended"
)

// AllowedTransitions represents the conversation flow (diagram) as code.
// Transitions are strictly forward; only followup loops on itself.
var AllowedTransitions = map[Stage][]Stage{
	StageGreeting:    {StageOfferHelp},
	StageOfferHelp:   {StagePreference, StageEnded},
	StagePreference:  {StagePersonalize, StageResult},
	StagePersonalize: {StageResult},
	StageResult:      {StageFollowup},
	StageEnded:       {StageFollowup},
	StageFollowup:    {StageFollowup},
}

func CanTransition(from, to Stage) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type MessageKind string

const (
	KindText           MessageKind = "text"
	KindActivityList   MessageKind = "activity_list"
	KindPaymentRequest MessageKind = "payment_request"
	KindConfirmation   MessageKind = "confirmation"
)

// PaymentRequest is the one message payload that mutates after being
// appended: Paid flips to true and Reference is attached on confirmation.
type PaymentRequest struct {
	Activity  ai.Recommendation `json:"activity"`
	Paid      bool              `json:"paid"`
	Reference string            `json:"reference,omitempty"`
}

type Message struct {
	ID         string              `json:"id"`
	Role       Role                `json:"role"`
	Kind       MessageKind         `json:"kind"`
	Text       string              `json:"text,omitempty"`
	Activities []ai.Recommendation `json:"activities,omitempty"`
	Payment    *PaymentRequest     `json:"payment,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Session is the mutable unit of conversation state. It is owned exclusively
// by the request processing one user turn; no locking is needed.
type Session struct {
	ID       types.ID      `json:"id"`
	Stage    Stage         `json:"stage"`
	Guest    guest.Profile `json:"guest"`
	Messages []Message     `json:"messages"`
	// PendingBooking holds the one activity awaiting payment confirmation.
	// A new booking request supersedes it; confirmation or a free booking
	// clears it.
	PendingBooking *ai.Recommendation `json:"pending_booking,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (s *Session) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
	s.UpdatedAt = time.Now()
}

func NewTextMessage(role Role, text string) Message {
	return Message{ID: uuid.NewString(), Role: role, Kind: KindText, Text: text, CreatedAt: time.Now()}
}

func NewActivityListMessage(recs []ai.Recommendation) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Kind: KindActivityList, Activities: recs, CreatedAt: time.Now()}
}

func NewPaymentRequestMessage(act ai.Recommendation) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Kind: KindPaymentRequest, Payment: &PaymentRequest{Activity: act}, CreatedAt: time.Now()}
}

func NewConfirmationMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Kind: KindConfirmation, Text: text, CreatedAt: time.Now()}
}
