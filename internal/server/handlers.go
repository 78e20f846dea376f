package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/omriShneor/tailortalk/internal/database"
	"github.com/omriShneor/tailortalk/internal/gcal"
	"github.com/omriShneor/tailortalk/internal/timeutil"
)

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"db":     "disconnected",
		"gcal":   "disconnected",
		"llm":    "unconfigured",
	}

	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		status["db"] = "connected"
	}
	if s.gcalClient != nil && s.gcalClient.IsAuthenticated() {
		status["gcal"] = "connected"
	}
	if s.llm != nil && s.llm.IsConfigured() {
		status["llm"] = "configured"
	}

	respondJSON(w, http.StatusOK, status)
}

// Calendar API

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.gcalClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar client not initialized")
		return
	}

	events, err := s.gcalClient.ListEvents(s.calendarID, 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	if s.gcalClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar client not initialized")
		return
	}

	events, err := s.gcalClient.ListUpcoming(s.calendarID, 5)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

type availabilityRequest struct {
	Date            string `json:"date"` // YYYY-MM-DD
	DurationMinutes int    `json:"duration_minutes"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	day, err := timeutil.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)")
		return
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 60
	}

	slots, err := s.bot.Availability(day, duration)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"available_slots": slots})
}

type bookRequest struct {
	Start       string   `json:"start"` // ISO format
	End         string   `json:"end"`   // ISO format
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Attendees   []string `json:"attendees"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	if s.gcalClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Google Calendar client not initialized")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := timeutil.ParseDateTime(req.Start)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start time")
		return
	}
	end, err := timeutil.ParseDateTime(req.End)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end time")
		return
	}
	if !end.After(start) {
		respondError(w, http.StatusBadRequest, "end must be after start")
		return
	}
	if req.Summary == "" {
		respondError(w, http.StatusBadRequest, "summary is required")
		return
	}

	event, err := s.gcalClient.CreateEvent(s.calendarID, gcal.EventInput{
		Summary:     req.Summary,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Attendees:   req.Attendees,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"event": event})
}

// Chat API

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fmt.Printf("Received message: %s\n", req.Message)
	s.appendChatTurn(database.RoleUser, req.Message)

	reply, err := s.bot.HandleMessage(r.Context(), req.Message)
	if err != nil {
		// Errors are reply-shaped: the frontend reads "error" out of a 200
		// response, so a failed turn must never look like a transport fault.
		fmt.Printf("Error in /chat turn: %v\n", err)
		s.appendChatTurn(database.RoleBot, err.Error())
		respondJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
		return
	}

	s.appendChatTurn(database.RoleBot, reply)
	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// appendChatTurn records a transcript entry. History is display-only, so a
// storage failure never fails the turn.
func (s *Server) appendChatTurn(role, content string) {
	if s.db == nil || content == "" {
		return
	}
	if _, err := s.db.AppendChatTurn(role, content); err != nil {
		fmt.Printf("Warning: failed to record chat turn: %v\n", err)
	}
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, http.StatusServiceUnavailable, "chat history not available")
		return
	}

	turns, err := s.db.ListChatTurns()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if turns == nil {
		turns = []database.ChatTurn{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"turns": turns})
}

func (s *Server) handleClearChatHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, http.StatusServiceUnavailable, "chat history not available")
		return
	}

	if err := s.db.ClearChatTurns(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
