// README: Conversation service implements the stage machine and the
// recommendation pipeline (filter → prompt → gateway → validator).
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"concierge/internal/ai"
	"concierge/internal/modules/aiquota"
	"concierge/internal/modules/catalog"
	"concierge/internal/modules/guest"
	"concierge/internal/types"
)

var ErrInvalidStage = errors.New("invalid stage transition")

const quotaExhaustedReply = "I'm sorry, the concierge assistance allowance for your stay has been used up. " +
	"Our front desk team will be delighted to help you directly."

// GuestSource provides the profile bound to a new session.
type GuestSource interface {
	Random(ctx context.Context) (*guest.Profile, error)
}

// ScheduleSource provides the catalog entries within a stay window.
type ScheduleSource interface {
	ForStay(ctx context.Context, checkIn, checkOut time.Time) ([]catalog.Entry, error)
}

// SessionStore persists sessions between turns.
type SessionStore interface {
	Save(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id types.ID) (*Session, error)
}

// TurnQuota limits how many language-model turns a guest may consume.
type TurnQuota interface {
	UseTurn(ctx context.Context, guestID string) error
}

type Service struct {
	guests   GuestSource
	schedule ScheduleSource
	gateway  *ai.Gateway
	store    SessionStore
	quota    TurnQuota
	hotel    string
	log      *zap.Logger
}

func NewService(guests GuestSource, schedule ScheduleSource, gateway *ai.Gateway, store SessionStore, hotelName string, log *zap.Logger) *Service {
	return &Service{
		guests:   guests,
		schedule: schedule,
		gateway:  gateway,
		store:    store,
		hotel:    hotelName,
		log:      log,
	}
}

// SetTurnQuota attaches the optional per-guest turn allowance. Without it,
// language-model turns are unlimited.
func (s *Service) SetTurnQuota(q TurnQuota) {
	s.quota = q
}

// Start binds a guest profile, emits the greeting, and leaves the session
// waiting for the guest's first reply.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	g, err := s.guests.Random(ctx)
	if err != nil {
		return nil, fmt.Errorf("bind guest: %w", err)
	}

	now := time.Now()
	sess := &Session{
		ID:        types.ID(uuid.NewString()),
		Stage:     StageGreeting,
		Guest:     *g,
		CreatedAt: now,
		UpdatedAt: now,
	}

	greeting := fmt.Sprintf(
		"Hi, %s. It is a pleasure to welcome you to %s. "+
			"I am Sarah, your dedicated virtual concierge. May I assist you in booking any "+
			"leisure activities or experiences to enhance your stay?",
		g.LastName, s.hotel,
	)
	sess.Append(NewTextMessage(RoleAssistant, greeting))
	if err := s.transition(sess, StageOfferHelp); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Info("session started",
		zap.String("session_id", string(sess.ID)),
		zap.String("guest_id", string(g.ID)),
	)
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Session, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Save(ctx context.Context, sess *Session) error {
	return s.store.Save(ctx, sess)
}

// Advance processes one user turn: it appends the user message, applies the
// transition table, runs the recommendation pipeline where the table calls
// for it, and appends the assistant response. Stage selection is fully
// deterministic; the language model only shapes response text.
func (s *Service) Advance(ctx context.Context, sess *Session, userText string) error {
	sess.Append(NewTextMessage(RoleUser, userText))

	switch sess.Stage {
	case StageOfferHelp:
		if isDecline(userText) {
			sess.Append(NewTextMessage(RoleAssistant,
				"Certainly. Please feel free to reach out if you change your mind. Enjoy your stay!"))
			if err := s.transition(sess, StageEnded); err != nil {
				return err
			}
		} else {
			sess.Append(NewTextMessage(RoleAssistant,
				"Do you want me to personalize any experience for you, or shall I "+
					"give you a list of activities according to your schedule?"))
			if err := s.transition(sess, StagePreference); err != nil {
				return err
			}
		}

	case StagePreference:
		if wantsPersonalized(userText) {
			sess.Append(NewTextMessage(RoleAssistant,
				"I'd love to curate something special for you. Could you tell me a bit more about what you're in the mood for? "+
					"For example: Are you looking for relaxation, adventure, family fun, or dining experiences?"))
			if err := s.transition(sess, StagePersonalize); err != nil {
				return err
			}
		} else {
			// Anything that doesn't ask to personalize defaults to the full
			// list, including preference words like "relax".
			sess.Append(s.recommend(ctx, sess, userText, false)...)
			if err := s.transition(sess, StageResult); err != nil {
				return err
			}
		}

	case StagePersonalize:
		sess.Append(s.recommend(ctx, sess, userText, true)...)
		if err := s.transition(sess, StageResult); err != nil {
			return err
		}

	case StageResult, StageEnded, StageFollowup:
		reply := quotaExhaustedReply
		if s.useTurn(ctx, sess) {
			reply = s.gateway.Reply(ctx, ai.BuildFollowUp(s.hotel), userText)
		}
		sess.Append(NewTextMessage(RoleAssistant, reply))
		if err := s.transition(sess, StageFollowup); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: no user turn expected in stage %s", ErrInvalidStage, sess.Stage)
	}

	return s.store.Save(ctx, sess)
}

// recommend runs the schedule filter, prompt builder, gateway, and validator,
// and returns the assistant messages for this turn: an intro plus a
// structured list when the model output validates, otherwise the raw text.
func (s *Service) recommend(ctx context.Context, sess *Session, userText string, personalized bool) []Message {
	if !s.useTurn(ctx, sess) {
		return []Message{NewTextMessage(RoleAssistant, quotaExhaustedReply)}
	}

	stay, err := s.schedule.ForStay(ctx, sess.Guest.CheckIn, sess.Guest.CheckOut)
	if err != nil {
		s.log.Warn("schedule filter failed",
			zap.String("session_id", string(sess.ID)),
			zap.Error(err),
		)
		return []Message{NewTextMessage(RoleAssistant,
			fmt.Sprintf("I'm sorry, I ran into a problem reading the activity schedule. (%v)", err))}
	}

	var prompt, intro string
	if personalized {
		prompt = ai.BuildPersonalized(s.hotel, &sess.Guest, stay, userText)
		intro = "Here are some personalized recommendations for you:"
	} else {
		prompt = ai.BuildFullList(s.hotel, &sess.Guest, stay)
		intro = "Here are the activities available during your stay:"
	}

	raw := s.gateway.Reply(ctx, prompt, userText)
	recs, ok := ai.ParseRecommendations(raw)
	if !ok {
		// Model output didn't validate; show it as plain conversation
		// rather than dropping it.
		return []Message{NewTextMessage(RoleAssistant, raw)}
	}
	return []Message{
		NewTextMessage(RoleAssistant, intro),
		NewActivityListMessage(recs),
	}
}

// useTurn consumes one quota turn. Infra errors fail open; only a genuine
// exhaustion blocks the language model.
func (s *Service) useTurn(ctx context.Context, sess *Session) bool {
	if s.quota == nil {
		return true
	}
	err := s.quota.UseTurn(ctx, string(sess.Guest.ID))
	if err == nil {
		return true
	}
	if errors.Is(err, aiquota.ErrQuotaExhausted) {
		return false
	}
	s.log.Warn("turn quota check failed",
		zap.String("guest_id", string(sess.Guest.ID)),
		zap.Error(err),
	)
	return true
}

func (s *Service) transition(sess *Session, to Stage) error {
	if !CanTransition(sess.Stage, to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidStage, sess.Stage, to)
	}
	sess.Stage = to
	return nil
}

// isDecline matches the decline keywords as substrings of the turn.
func isDecline(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range []string{"no", "nope", "not now"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// wantsPersonalized keys on "personal" so "personalize", "personalised",
// "something personal" all route to the curation path.
func wantsPersonalized(text string) bool {
	return strings.Contains(strings.ToLower(text), "personal")
}
