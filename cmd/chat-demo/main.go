// README: Terminal chat driver; runs the full conversation flow against
// in-memory stores, no Postgres or Redis required.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"concierge/internal/ai"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/catalog"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/guest"
	"concierge/internal/types"
)

// memGuests serves a random profile from the seed pool.
type memGuests struct {
	pool []guest.Profile
}

func (m *memGuests) Random(context.Context) (*guest.Profile, error) {
	if len(m.pool) == 0 {
		return nil, guest.ErrNoGuests
	}
	p := m.pool[rand.Intn(len(m.pool))]
	return &p, nil
}

// memSchedule expands the template pool on the fly instead of reading Postgres.
type memSchedule struct {
	entries []catalog.Entry
}

func (m *memSchedule) ForStay(_ context.Context, checkIn, checkOut time.Time) ([]catalog.Entry, error) {
	return catalog.FilterByStay(m.entries, checkIn, checkOut)
}

type memStore struct {
	sessions map[types.ID]*conversation.Session
}

func (m *memStore) Save(_ context.Context, sess *conversation.Session) error {
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*conversation.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, conversation.ErrNotFound
	}
	return sess, nil
}

func main() {
	_ = godotenv.Load()

	logger := zap.NewNop()
	ctx := context.Background()

	var provider ai.LLMProvider
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gemini, err := ai.NewGeminiProvider(ctx, key)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		provider = gemini
	} else {
		fmt.Println("(GEMINI_API_KEY not set, the concierge will answer offline)")
	}

	now := time.Now()
	sessions := conversation.NewService(
		&memGuests{pool: guest.SeedPool(now)},
		&memSchedule{entries: catalog.Expand(catalog.TemplatePool(), now, 30)},
		ai.NewGateway(provider, logger),
		&memStore{sessions: map[types.ID]*conversation.Session{}},
		envOr("CONCIERGE_HOTEL_NAME", "Jumeirah Beach Hotel"),
		logger,
	)
	bookings := booking.NewService(nil, nil, logger)

	sess, err := sessions.Start(ctx)
	if err != nil {
		log.Fatalf("start session: %v", err)
	}
	printed := 0
	printed = printNew(sess, printed)

	// lastList remembers the most recent activity list so "book N" works.
	var lastList []ai.Recommendation

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("\nYou: ")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fmt.Print("You: ")
			continue
		}
		if text == "quit" || text == "exit" {
			return
		}

		if n, ok := parseBookCommand(text); ok {
			if n < 1 || n > len(lastList) {
				fmt.Printf("No activity #%d in the last list.\n", n)
			} else {
				out, err := bookings.Book(ctx, sess, lastList[n-1])
				if err != nil {
					fmt.Printf("Booking failed: %v\n", err)
				} else if out.Status == booking.StatusPendingPayment {
					// the demo has no payment UI, confirm immediately
					out, err = bookings.ConfirmPayment(ctx, sess, out.MessageID)
					if err != nil {
						fmt.Printf("Payment failed: %v\n", err)
					}
				}
				printed = printNew(sess, printed)
			}
			fmt.Print("\nYou: ")
			continue
		}

		if err := sessions.Advance(ctx, sess, text); err != nil {
			log.Fatalf("advance: %v", err)
		}
		printed = printNew(sess, printed)
		for _, m := range sess.Messages {
			if m.Kind == conversation.KindActivityList {
				lastList = m.Activities
			}
		}
		fmt.Print("\nYou: ")
	}
}

// printNew prints messages appended since the last call and returns the new
// high-water mark.
func printNew(sess *conversation.Session, printed int) int {
	for _, m := range sess.Messages[printed:] {
		if m.Role != conversation.RoleAssistant {
			continue
		}
		switch m.Kind {
		case conversation.KindActivityList:
			for i, a := range m.Activities {
				fmt.Printf("  %d. %s (%s %s, %s) %s\n", i+1, a.ActivityName, a.Day, a.Time, a.Price, a.Description)
			}
			fmt.Println(`Type "book N" to book an activity.`)
		default:
			fmt.Printf("Sarah: %s\n", m.Text)
		}
	}
	return len(sess.Messages)
}

func parseBookCommand(text string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.ToLower(text), "book ")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return n, true
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
