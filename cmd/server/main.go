package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"barberbook-service/internal/domain/entity"
	domainRepo "barberbook-service/internal/domain/repository"
	"barberbook-service/internal/infrastructure/config"
	"barberbook-service/internal/infrastructure/oauth"
	"barberbook-service/internal/infrastructure/persistence"
	"barberbook-service/internal/infrastructure/router"
	calendarSvc "barberbook-service/internal/interface/calendar"
	interfaceRepo "barberbook-service/internal/interface/repository"
	"barberbook-service/internal/usecase"
	"barberbook-service/pkg/logger"
	"barberbook-service/pkg/metrics"
	"barberbook-service/pkg/timeutil"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Barberbook Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal("Invalid catalog configuration", "error", err)
	}

	loc := timeutil.Location(cfg.Timezone)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up PostgreSQL connection (ledger + scheduled actions)
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up MongoDB connection (message traffic log)
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	m := metrics.NewMetrics("barberbook")

	// Set up repositories
	appointmentRepo := interfaceRepo.NewGormAppointmentRepository(gormDB)
	actionRepo := interfaceRepo.NewGormScheduledActionRepository(gormDB)
	messageLogRepo := interfaceRepo.NewMongoMessageLogRepository(mongoDB)

	whatsappRepo := interfaceRepo.NewWhatsappRepository(
		cfg.WhatsAppEndpoint,
		cfg.WhatsAppToken,
		cfg.WhatsAppCompanyID,
		cfg.WhatsAppAgentID,
		cfg.SendDelay,
		log,
	)
	messenger := interfaceRepo.NewLoggedMessenger(whatsappRepo, messageLogRepo, m, log)

	// Set up Google Calendar
	calendarAuth := oauth.NewCalendarAuth(cfg.GoogleCredentialsFile, log)
	var calendarRepo *calendarSvc.CalendarService
	if calendarAuth.Configured() {
		tokenSource, err := calendarAuth.TokenSource(ctx)
		if err != nil {
			log.Fatal("Failed to load Google credentials", "error", err)
		}
		calendarRepo, err = calendarSvc.NewCalendarService(ctx, tokenSource, loc, log)
		if err != nil {
			log.Fatal("Failed to create Calendar service", "error", err)
		}
	} else {
		log.Warn("Google Calendar credentials not configured, calendar writes disabled")
		calendarRepo = calendarSvc.NewDisabledCalendarService(loc, log)
	}

	// Set up usecases
	availability := usecase.NewAvailabilityResolver(appointmentRepo, calendarRepo, catalog, loc, log)
	booking := usecase.NewBookingService(appointmentRepo, actionRepo, calendarRepo, catalog, loc, m, log)
	admin := usecase.NewAdminService(appointmentRepo, calendarRepo, messenger, catalog, loc, log)

	cmdRouter := router.NewCommandRouter(log)
	cmdRouter.Register(usecase.NewScheduleCommand(messenger, catalog))
	cmdRouter.Register(usecase.NewClearCalendarCommand(admin, messenger, catalog, log))

	engine := usecase.NewEngine(availability, booking, admin, catalog, messenger, cmdRouter, log)

	dispatcher := usecase.NewActionDispatcher(actionRepo, appointmentRepo, messenger, engine, m, log, cfg.SchedulerInterval)
	go dispatcher.Start(ctx)

	// Set up HTTP server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	mux.HandleFunc("/api/v1/webhook/messages", webhookHandler(cfg, engine, messageLogRepo, log))
	mux.HandleFunc("/api/v1/messages", messageHistoryHandler(cfg, messageLogRepo, log))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Barberbook Service stopped")
}

type inboundMessage struct {
	From        string `json:"from"`
	ContactName string `json:"contactName"`
	Text        string `json:"text"`
}

// webhookHandler receives inbound WhatsApp messages from the gateway
func webhookHandler(cfg *config.Config, engine *usecase.Engine, messageLog domainRepo.MessageLogRepository, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if cfg.WebhookToken != "" && r.Header.Get("Authorization") != "Bearer "+cfg.WebhookToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var msg inboundMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.From == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := messageLog.Save(r.Context(), &entity.MessageRecord{
			Direction:   entity.DirectionInbound,
			UserID:      msg.From,
			ContactName: msg.ContactName,
			Text:        msg.Text,
		}); err != nil {
			log.Warn("Failed to log inbound message", "userId", msg.From, "error", err)
		}

		if err := engine.HandleMessage(r.Context(), msg.From, msg.ContactName, msg.Text); err != nil {
			log.Error("Failed to handle inbound message", "userId", msg.From, "error", err)
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

// messageHistoryHandler serves the recent message traffic for one user, for
// operator inspection
func messageHistoryHandler(cfg *config.Config, messageLog domainRepo.MessageLogRepository, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if cfg.WebhookToken != "" && r.Header.Get("Authorization") != "Bearer "+cfg.WebhookToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		userID := r.URL.Query().Get("user")
		if userID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}

		records, err := messageLog.ListForUser(r.Context(), userID, limit)
		if err != nil {
			log.Error("Failed to list message history", "userId", userID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			log.Error("Failed to encode message history", "userId", userID, "error", err)
		}
	}
}
