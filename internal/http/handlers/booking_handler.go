// README: Booking handlers for book/confirm-payment.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/internal/ai"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/conversation"
	"concierge/internal/types"
)

type BookingHandler struct {
	sessions *conversation.Service
	bookings *booking.Service
}

func NewBookingHandler(sessions *conversation.Service, bookings *booking.Service) *BookingHandler {
	return &BookingHandler{sessions: sessions, bookings: bookings}
}

type bookReq struct {
	Day          string `json:"day"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	ActivityName string `json:"activity_name"`
	Price        string `json:"price"`
	Description  string `json:"description"`
}

// Book records a booking request for an activity the guest picked from a
// previously shown list. Free activities confirm immediately; priced ones
// come back as a payment request.
func (h *BookingHandler) Book(c *gin.Context) {
	var req bookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ActivityName == "" {
		writeError(c, http.StatusBadRequest, "missing activity_name")
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	out, err := h.bookings.Book(c.Request.Context(), sess, ai.Recommendation{
		Day:          req.Day,
		Date:         req.Date,
		Time:         req.Time,
		ActivityName: req.ActivityName,
		Price:        req.Price,
		Description:  req.Description,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"status":     out.Status,
		"reference":  out.Reference,
		"message_id": out.MessageID,
		"session":    sess,
	})
}

// ConfirmPayment finalizes a pending payment request by message id.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	out, err := h.bookings.ConfirmPayment(c.Request.Context(), sess, c.Param("message_id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"status":     out.Status,
		"reference":  out.Reference,
		"message_id": out.MessageID,
		"session":    sess,
	})
}
