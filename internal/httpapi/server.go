// Package httpapi exposes the bot to the messaging transport over HTTP: the
// transport posts inbound event envelopes and receives the replies to send.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"expensebot/internal/bot"
	"expensebot/internal/log"
	"expensebot/internal/reply"
)

// Server wraps http.Server with the event bridge routes.
type Server struct {
	http.Server
	router *bot.Router
	logger *log.Logger
}

// eventRequest is the inbound envelope from the transport. Exactly one of
// Text and Action is expected to be set.
type eventRequest struct {
	UserID int64  `json:"user_id"`
	Locale string `json:"locale,omitempty"`
	Text   string `json:"text,omitempty"`
	Action string `json:"action,omitempty"`
}

type eventResponse struct {
	Replies []reply.Reply `json:"replies"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, router *bot.Router, logger *log.Logger) *Server {
	s := &Server{
		router: router,
		logger: logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	// Method-restricted registration; Go 1.21's ServeMux has no method
	// patterns, so the check is explicit: wrong method on a known path is
	// 405, as the 1.22+ mux would report.
	mux.HandleFunc("/v1/events", requireMethod(http.MethodPost, s.handleEvent))
	mux.HandleFunc("/healthz", requireMethod(http.MethodGet, s.handleHealth))

	s.Server = http.Server{
		Addr:         addr,
		Handler:      s.trace(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.UserID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}
	if req.Text == "" && req.Action == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "one of text or action is required"})
		return
	}

	replies := s.router.Handle(r.Context(), bot.Event{
		UserID:     req.UserID,
		LocaleHint: req.Locale,
		Text:       req.Text,
		Action:     req.Action,
	})
	if replies == nil {
		replies = []reply.Reply{}
	}

	writeJSON(w, http.StatusOK, eventResponse{Replies: replies})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding failures after the header is out can only be logged by the
	// caller's middleware; the connection is already committed.
	_ = json.NewEncoder(w).Encode(body)
}
