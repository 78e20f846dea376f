package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omriShneor/tailortalk/internal/assistant"
	"github.com/omriShneor/tailortalk/internal/config"
	"github.com/omriShneor/tailortalk/internal/database"
	"github.com/omriShneor/tailortalk/internal/gcal"
	"github.com/omriShneor/tailortalk/internal/llm"
	"github.com/omriShneor/tailortalk/internal/notify"
	"github.com/omriShneor/tailortalk/internal/server"
)

func main() {
	cfg := config.LoadFromEnv()

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	gcalClient := initCalendar(cfg)
	dispatcher := initDispatcher(cfg)
	notifier := initNotifier(cfg)

	var calendar assistant.Calendar
	if gcalClient != nil {
		calendar = gcalClient
	}
	var responder assistant.Responder
	if dispatcher != nil {
		responder = dispatcher
	}
	var bookingNotifier assistant.Notifier
	if notifier != nil {
		bookingNotifier = notifier
	}

	bot := assistant.New(calendar, responder, bookingNotifier, assistant.Config{
		CalendarID: cfg.CalendarID,
		Hours: assistant.WorkingHours{
			StartHour: cfg.DayStartHour,
			EndHour:   cfg.DayEndHour,
		},
	})

	var llmStatus server.Configurable
	if dispatcher != nil {
		llmStatus = dispatcher
	}

	srv := server.New(server.ServerConfig{
		DB:         db,
		Assistant:  bot,
		GCalClient: gcalClient,
		LLM:        llmStatus,
		CalendarID: cfg.CalendarID,
		Port:       cfg.HTTPPort,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	waitForShutdown(srv)
}

func initCalendar(cfg *config.Config) *gcal.Client {
	client, err := gcal.NewClient(context.Background(), cfg.GoogleServiceAccountFile)
	if err != nil {
		fmt.Printf("Warning: Google Calendar unavailable: %v\n", err)
		return nil
	}
	fmt.Println("Google Calendar client initialized")
	return client
}

func initDispatcher(cfg *config.Config) *llm.Dispatcher {
	if cfg.OpenRouterAPIKey == "" {
		fmt.Println("Warning: OPENROUTER_API_KEY not set, LLM fallback disabled")
		return nil
	}

	dispatcher := llm.NewDispatcher(llm.Config{
		APIKey:       cfg.OpenRouterAPIKey,
		BaseURL:      cfg.LLMBaseURL,
		Models:       cfg.LLMModels,
		ModelTimeout: time.Duration(cfg.LLMModelTimeout) * time.Second,
	})
	fmt.Println("LLM fallback dispatcher configured (OpenRouter cascade)")
	return dispatcher
}

func initNotifier(cfg *config.Config) *notify.ResendNotifier {
	if cfg.ResendAPIKey == "" {
		return nil
	}

	notifier := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom)
	if notifier != nil && notifier.IsConfigured() {
		fmt.Println("Attendee email notifications configured (Resend)")
	}
	return notifier
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
