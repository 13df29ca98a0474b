// README: Session handlers for start/get/message.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/internal/modules/conversation"
	"concierge/internal/types"
)

type SessionHandler struct {
	sessions *conversation.Service
}

func NewSessionHandler(svc *conversation.Service) *SessionHandler {
	return &SessionHandler{sessions: svc}
}

// Start opens a new session: a guest profile is bound and the greeting is
// already in the message log.
func (h *SessionHandler) Start(c *gin.Context) {
	sess, err := h.sessions.Start(c.Request.Context())
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sess)
}

func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess)
}

type messageReq struct {
	Text string `json:"text"`
}

// Message processes one user turn and returns the updated session.
func (h *SessionHandler) Message(c *gin.Context) {
	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == "" {
		writeError(c, http.StatusBadRequest, "missing text")
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if err := h.sessions.Advance(c.Request.Context(), sess, req.Text); err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sess)
}
