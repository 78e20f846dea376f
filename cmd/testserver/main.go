// Package main provides a test server for exercising the chat flow end to end.
// This server runs with in-memory SQLite and an in-memory calendar, so no
// Google credentials are needed. The LLM fallback uses the real OpenRouter API
// when OPENROUTER_API_KEY is set.
//
// Usage:
//
//	OPENROUTER_API_KEY=sk-... go run cmd/testserver/main.go
//
// The server exposes additional test control endpoints:
//   - POST /api/test/reset - Clear the chat transcript and the calendar
//   - POST /api/test/seed-event - Insert a busy event into the calendar
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omriShneor/tailortalk/internal/assistant"
	"github.com/omriShneor/tailortalk/internal/config"
	"github.com/omriShneor/tailortalk/internal/database"
	"github.com/omriShneor/tailortalk/internal/llm"
	"github.com/omriShneor/tailortalk/internal/mocks"
	"github.com/omriShneor/tailortalk/internal/server"
	"github.com/omriShneor/tailortalk/internal/timeutil"
)

func main() {
	fmt.Println("Starting TailorTalk Test Server...")
	fmt.Println("This server uses in-memory SQLite and an in-memory calendar.")

	cfg := config.LoadFromEnv()

	if cfg.OpenRouterAPIKey == "" {
		fmt.Println("Warning: OPENROUTER_API_KEY not set. Fallback replies will not work.")
	}

	db, err := database.New(":memory:")
	if err != nil {
		fmt.Printf("Failed to create database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("In-memory database initialized")

	calendar := mocks.NewInMemoryCalendar()

	var responder assistant.Responder
	var llmStatus server.Configurable
	if cfg.OpenRouterAPIKey != "" {
		dispatcher := llm.NewDispatcher(llm.Config{
			APIKey:       cfg.OpenRouterAPIKey,
			BaseURL:      cfg.LLMBaseURL,
			Models:       cfg.LLMModels,
			ModelTimeout: time.Duration(cfg.LLMModelTimeout) * time.Second,
		})
		responder = dispatcher
		llmStatus = dispatcher
		fmt.Println("OpenRouter configured for fallback replies")
	}

	bot := assistant.New(calendar, responder, nil, assistant.Config{
		CalendarID: cfg.CalendarID,
		Hours:      assistant.WorkingHours{StartHour: cfg.DayStartHour, EndHour: cfg.DayEndHour},
	})

	srv := server.New(server.ServerConfig{
		DB:         db,
		Assistant:  bot,
		LLM:        llmStatus,
		CalendarID: cfg.CalendarID,
		Port:       cfg.HTTPPort,
	})

	// Wrap the server handler with test control endpoints
	mainHandler := srv.Handler()
	testMux := http.NewServeMux()

	testMux.HandleFunc("/api/test/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		fmt.Println("Resetting test state...")
		calendar.Reset()
		if err := db.ClearChatTurns(); err != nil {
			http.Error(w, fmt.Sprintf("Failed to clear chat turns: %v", err), http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	testMux.HandleFunc("/api/test/seed-event", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Summary string `json:"summary"`
			Start   string `json:"start"`
			End     string `json:"end"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		start, err := timeutil.ParseDateTime(req.Start)
		if err != nil {
			http.Error(w, "Invalid start time", http.StatusBadRequest)
			return
		}
		end, err := timeutil.ParseDateTime(req.End)
		if err != nil {
			http.Error(w, "Invalid end time", http.StatusBadRequest)
			return
		}
		if req.Summary == "" {
			req.Summary = "Busy"
		}

		fmt.Printf("Seeding event %q from %s to %s\n", req.Summary, req.Start, req.End)
		details := calendar.Seed(req.Summary, start, end)
		respondJSON(w, http.StatusCreated, details)
	})

	// Fallback to main handler
	testMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mainHandler.ServeHTTP(w, r)
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      testMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		fmt.Printf("\nTest Server running on http://localhost:%d\n", cfg.HTTPPort)
		fmt.Println("\nTest endpoints:")
		fmt.Println("  POST /api/test/reset      - Clear chat transcript and calendar")
		fmt.Println("  POST /api/test/seed-event - Insert a busy event")
		fmt.Println("\nPress Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down test server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}

	fmt.Println("Test server stopped")
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
