// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"concierge/internal/http/handlers"
	"concierge/internal/http/middleware"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/conversation"
)

type ServerDeps struct {
	Sessions *conversation.Service
	Bookings *booking.Service
	Log      *zap.Logger
}

type Server struct {
	sessions *conversation.Service
	bookings *booking.Service
	log      *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		sessions: deps.Sessions,
		bookings: deps.Bookings,
		log:      deps.Log,
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log))

	sessionHandler := handlers.NewSessionHandler(s.sessions)
	r.POST("/api/sessions", sessionHandler.Start)
	r.GET("/api/sessions/:id", sessionHandler.Get)
	r.POST("/api/sessions/:id/messages", sessionHandler.Message)

	bookingHandler := handlers.NewBookingHandler(s.sessions, s.bookings)
	r.POST("/api/sessions/:id/bookings", bookingHandler.Book)
	r.POST("/api/sessions/:id/payments/:message_id/confirm", bookingHandler.ConfirmPayment)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
