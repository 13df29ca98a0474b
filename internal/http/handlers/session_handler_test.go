// README: Integration tests for the session and booking endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"concierge/internal/ai"
	"concierge/internal/http/handlers"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/catalog"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/guest"
	"concierge/internal/types"
)

// ── test doubles ────────────────────────────────────────────────────────────

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

type stubGuests struct{}

func (stubGuests) Random(context.Context) (*guest.Profile, error) {
	return &guest.Profile{
		ID:         "G-102",
		LastName:   "Johnson",
		RoomNumber: "402",
		CheckIn:    time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 3, 7, 11, 0, 0, 0, time.UTC),
	}, nil
}

type stubSchedule struct{}

func (stubSchedule) ForStay(context.Context, time.Time, time.Time) ([]catalog.Entry, error) {
	return []catalog.Entry{
		{Date: "2026-03-04", DayName: "Wednesday", Name: "Aqua Aerobics", StartTime: "09:00", Price: "Free"},
	}, nil
}

type stubProvider struct{ reply string }

func (p stubProvider) Generate(context.Context, string) (string, error) {
	return p.reply, nil
}

// buildTestRouter wires a minimal Gin engine with in-memory stores and a
// scripted language model.
func buildTestRouter(reply string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	sessions := conversation.NewService(
		stubGuests{},
		stubSchedule{},
		ai.NewGateway(stubProvider{reply: reply}, log),
		&memStore{sessions: map[types.ID]*conversation.Session{}},
		"Jumeirah Beach Hotel",
		log,
	)
	bookings := booking.NewService(nil, nil, log)

	r := gin.New()
	sh := handlers.NewSessionHandler(sessions)
	r.POST("/api/sessions", sh.Start)
	r.GET("/api/sessions/:id", sh.Get)
	r.POST("/api/sessions/:id/messages", sh.Message)
	bh := handlers.NewBookingHandler(sessions, bookings)
	r.POST("/api/sessions/:id/bookings", bh.Book)
	r.POST("/api/sessions/:id/payments/:message_id/confirm", bh.ConfirmPayment)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func startSession(t *testing.T, r *gin.Engine) conversation.Session {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var sess conversation.Session
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess
}

// ── tests ───────────────────────────────────────────────────────────────────

func TestStartAndGetSession(t *testing.T) {
	r := buildTestRouter("ok")
	sess := startSession(t, r)

	if sess.Stage != conversation.StageOfferHelp {
		t.Errorf("expected offer_help, got %s", sess.Stage)
	}
	if len(sess.Messages) != 1 {
		t.Errorf("expected the greeting only, got %d messages", len(sess.Messages))
	}

	w := doRequest(r, http.MethodGet, "/api/sessions/"+string(sess.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetUnknownSession(t *testing.T) {
	r := buildTestRouter("ok")
	w := doRequest(r, http.MethodGet, "/api/sessions/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestMessageValidation(t *testing.T) {
	r := buildTestRouter("ok")
	sess := startSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/sessions/"+string(sess.ID)+"/messages", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty text, got %d", w.Code)
	}
}

func TestMessageAdvancesStage(t *testing.T) {
	r := buildTestRouter("Certainly, happy to help.")
	sess := startSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/sessions/"+string(sess.ID)+"/messages",
		map[string]any{"text": "yes please"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated conversation.Session
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if updated.Stage != conversation.StagePreference {
		t.Errorf("expected preference, got %s", updated.Stage)
	}
}

func TestBookFreeActivity(t *testing.T) {
	r := buildTestRouter("ok")
	sess := startSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/sessions/"+string(sess.ID)+"/bookings", map[string]any{
		"day": "Wednesday", "date": "2026-03-04", "time": "09:00",
		"activity_name": "Aqua Aerobics", "price": "Free",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status    booking.Status `json:"status"`
		Reference string         `json:"reference"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != booking.StatusAutoConfirmed {
		t.Errorf("expected auto_confirmed, got %s", resp.Status)
	}
	if len(resp.Reference) != 6 {
		t.Errorf("expected a 6-digit reference, got %q", resp.Reference)
	}
}

func TestBookPaidThenConfirm(t *testing.T) {
	r := buildTestRouter("ok")
	sess := startSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/sessions/"+string(sess.ID)+"/bookings", map[string]any{
		"day": "Friday", "date": "2026-03-06", "time": "19:00",
		"activity_name": "Whiskey Tasting", "price": "300 AED",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("book: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var booked struct {
		Status    booking.Status `json:"status"`
		MessageID string         `json:"message_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &booked); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if booked.Status != booking.StatusPendingPayment {
		t.Fatalf("expected pending_payment, got %s", booked.Status)
	}

	path := "/api/sessions/" + string(sess.ID) + "/payments/" + booked.MessageID + "/confirm"
	w = doRequest(r, http.MethodPost, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// second confirm must conflict
	w = doRequest(r, http.MethodPost, path, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 on double confirm, got %d", w.Code)
	}
}

func TestConfirmUnknownPayment(t *testing.T) {
	r := buildTestRouter("ok")
	sess := startSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/sessions/"+string(sess.ID)+"/payments/nope/confirm", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
