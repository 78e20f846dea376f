package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/omriShneor/tailortalk/internal/assistant"
	"github.com/omriShneor/tailortalk/internal/database"
	"github.com/omriShneor/tailortalk/internal/gcal"
)

// Configurable is an optional subsystem that can report whether it has
// working configuration. The health check uses it for the LLM dispatcher.
type Configurable interface {
	IsConfigured() bool
}

type Server struct {
	db         *database.DB
	bot        *assistant.Assistant
	gcalClient *gcal.Client
	llm        Configurable
	calendarID string
	httpSrv    *http.Server
	port       int
}

// ServerConfig holds everything the HTTP surface needs at creation time
type ServerConfig struct {
	DB         *database.DB
	Assistant  *assistant.Assistant
	GCalClient *gcal.Client
	LLM        Configurable
	CalendarID string
	Port       int
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		db:         cfg.DB,
		bot:        cfg.Assistant,
		gcalClient: cfg.GCalClient,
		llm:        cfg.LLM,
		calendarID: cfg.CalendarID,
		port:       cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // a chat turn may wait on the full LLM cascade
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Calendar API
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("GET /upcoming", s.handleUpcomingEvents)
	mux.HandleFunc("POST /availability", s.handleAvailability)
	mux.HandleFunc("POST /book", s.handleBook)

	// Chat API
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /chat/history", s.handleChatHistory)
	mux.HandleFunc("DELETE /chat/history", s.handleClearChatHistory)
}

func (s *Server) Start() error {
	fmt.Printf("Starting HTTP server on http://localhost:%d\n", s.port)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware adds CORS headers so the Streamlit frontend can call us
// cross-origin
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
