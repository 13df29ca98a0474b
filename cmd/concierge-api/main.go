// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"concierge/internal/ai"
	"concierge/internal/config"
	httptransport "concierge/internal/http"
	"concierge/internal/infra"
	"concierge/internal/modules/aiquota"
	"concierge/internal/modules/booking"
	"concierge/internal/modules/catalog"
	"concierge/internal/modules/conversation"
	"concierge/internal/modules/guest"
	"concierge/internal/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("postgres init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	var provider ai.LLMProvider
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			logger.Fatal("gemini init", zap.Error(err))
		}
		defer gemini.Close()
		provider = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, language core runs offline")
	}
	gateway := ai.NewGateway(provider, logger)

	guestStore := guest.NewStore(dbPool)
	guestSvc := guest.NewService(guestStore)

	catalogStore := catalog.NewStore(dbPool)
	catalogSvc := catalog.NewService(catalogStore)

	sessionStore := conversation.NewStore(redisClient)
	sessionSvc := conversation.NewService(guestSvc, catalogSvc, gateway, sessionStore, cfg.Hotel.Name, logger)
	sessionSvc.SetTurnQuota(aiquota.NewService(aiquota.NewStore(dbPool)))

	bookingStore := booking.NewStore(dbPool)
	emailSink := notify.NewEmailSink(cfg.SMTP, logger)
	bookingSvc := booking.NewService(bookingStore, emailSink, logger)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Sessions: sessionSvc,
		Bookings: bookingSvc,
		Log:      logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("concierge api listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
