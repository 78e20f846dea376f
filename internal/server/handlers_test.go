package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omriShneor/tailortalk/internal/assistant"
	"github.com/omriShneor/tailortalk/internal/database"
	"github.com/omriShneor/tailortalk/internal/gcal"
)

type stubCalendar struct {
	events  []gcal.EventDetails
	listErr error
}

func (f *stubCalendar) ListUpcoming(calendarID string, maxResults int64) ([]gcal.EventDetails, error) {
	return f.events, f.listErr
}

func (f *stubCalendar) ListEventsInRange(calendarID string, timeMin, timeMax time.Time) ([]gcal.EventDetails, error) {
	return f.events, f.listErr
}

func (f *stubCalendar) CreateEvent(calendarID string, input gcal.EventInput) (*gcal.EventDetails, error) {
	end := input.EndTime
	return &gcal.EventDetails{ID: "evt-1", Summary: input.Summary, StartTime: input.StartTime, EndTime: &end}, nil
}

type stubResponder struct {
	reply string
}

func (f *stubResponder) Dispatch(_ context.Context, _ string) (string, error) {
	return f.reply, nil
}

func newTestServer(t *testing.T, cal assistant.Calendar, llm assistant.Responder) *Server {
	t.Helper()
	bot := assistant.New(cal, llm, nil, assistant.Config{CalendarID: "primary"})
	return New(ServerConfig{
		DB:        database.NewTestDB(t),
		Assistant: bot,
		Port:      0,
	})
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

type stubConfigurable struct {
	configured bool
}

func (f *stubConfigurable) IsConfigured() bool { return f.configured }

func TestHealthCheck(t *testing.T) {
	t.Run("reports every subsystem", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, nil)

		rec := doJSON(t, srv, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody(t, rec)
		assert.Equal(t, "ok", got["status"])
		assert.Equal(t, "connected", got["db"])
		assert.Equal(t, "disconnected", got["gcal"])
		assert.Equal(t, "unconfigured", got["llm"])
	})

	t.Run("configured llm shows up", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, nil)
		srv.llm = &stubConfigurable{configured: true}

		rec := doJSON(t, srv, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "configured", decodeBody(t, rec)["llm"])
	})
}

func TestChat(t *testing.T) {
	t.Run("fallback reply", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, &stubResponder{reply: "I book meetings."})

		rec := doJSON(t, srv, http.MethodPost, "/chat", `{"message":"who are you?"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "I book meetings.", decodeBody(t, rec)["response"])
	})

	t.Run("turn errors come back as 200 with error field", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, nil)

		rec := doJSON(t, srv, http.MethodPost, "/chat", `{"message":"who are you?"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody(t, rec)
		assert.Contains(t, got["error"], "no language model configured")
		assert.NotContains(t, got, "response")
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, nil)

		rec := doJSON(t, srv, http.MethodPost, "/chat", `{"message":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("turns are recorded in history", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, &stubResponder{reply: "Hi!"})

		doJSON(t, srv, http.MethodPost, "/chat", `{"message":"hello bot"}`)

		rec := doJSON(t, srv, http.MethodGet, "/chat/history", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Turns []database.ChatTurn `json:"turns"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Turns, 2)
		assert.Equal(t, database.RoleUser, got.Turns[0].Role)
		assert.Equal(t, "hello bot", got.Turns[0].Content)
		assert.Equal(t, database.RoleBot, got.Turns[1].Role)
		assert.Equal(t, "Hi!", got.Turns[1].Content)
	})
}

func TestChatHistory(t *testing.T) {
	t.Run("empty history is an empty list", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, nil)

		rec := doJSON(t, srv, http.MethodGet, "/chat/history", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"turns":[]}`, rec.Body.String())
	})

	t.Run("delete clears the transcript", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, &stubResponder{reply: "Hi!"})
		doJSON(t, srv, http.MethodPost, "/chat", `{"message":"hello"}`)

		rec := doJSON(t, srv, http.MethodDelete, "/chat/history", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cleared", decodeBody(t, rec)["status"])

		rec = doJSON(t, srv, http.MethodGet, "/chat/history", "")
		assert.JSONEq(t, `{"turns":[]}`, rec.Body.String())
	})
}

func TestAvailabilityEndpoint(t *testing.T) {
	t.Run("returns planned slots", func(t *testing.T) {
		end := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)
		srv := newTestServer(t, &stubCalendar{events: []gcal.EventDetails{
			{StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), EndTime: &end},
		}}, nil)

		rec := doJSON(t, srv, http.MethodPost, "/availability", `{"date":"2024-06-01","duration_minutes":60}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Slots []assistant.FreeSlot `json:"available_slots"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Slots, 1)
		assert.True(t, got.Slots[0].Start.Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)))
	})

	t.Run("bad date is a 400", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, nil)

		rec := doJSON(t, srv, http.MethodPost, "/availability", `{"date":"June 1st"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "invalid date format")
	})

	t.Run("missing body is a 400", func(t *testing.T) {
		srv := newTestServer(t, &stubCalendar{}, nil)

		rec := doJSON(t, srv, http.MethodPost, "/availability", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookEndpointWithoutCalendarClient(t *testing.T) {
	srv := newTestServer(t, &stubCalendar{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/book",
		`{"start":"2024-06-01T10:00:00","end":"2024-06-01T11:00:00","summary":"Sync"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEventsEndpointsWithoutCalendarClient(t *testing.T) {
	srv := newTestServer(t, &stubCalendar{}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, srv, http.MethodGet, "/events", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, srv, http.MethodGet, "/upcoming", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &stubCalendar{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
