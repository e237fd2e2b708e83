// Package stubserver implements a local stand-in for the remote answering
// service so the client can be developed and demoed offline. It honors
// the production wire protocol, including the content-free and error
// responses the client has to classify.
package stubserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server answers questions from a small canned FAQ.
type Server struct {
	logger  *slog.Logger
	answers []faqEntry
}

type faqEntry struct {
	keyword string
	answer  string
	sources []string
}

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type askResponse struct {
	Answer      string   `json:"answer"`
	SourcesUsed []string `json:"sources_used,omitempty"`
}

func New(logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		answers: []faqEntry{
			{keyword: "meet", answer: "Wed & Fri, 19:30-22:00", sources: []string{"faq.md"}},
			{keyword: "where", answer: "Room 204, Community Center", sources: []string{"faq.md"}},
			{keyword: "cost", answer: "Free for everyone, just show up.", sources: []string{"faq.md", "about.md"}},
		},
	}
}

// Router mounts the wire protocol with request tracing.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/chat", s.handleChat)
	return otelhttp.NewHandler(r, "stubserver")
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		s.logger.Warn("rejected malformed question",
			slog.String("request_id", requestID))
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	// Directives let manual testers provoke each failure branch.
	switch req.Question {
	case "!fail":
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	case "!garbage":
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not-json"))
		return
	}

	s.logger.Info("answering question",
		slog.String("request_id", requestID),
		slog.String("session_id", req.SessionID),
		slog.Int("question_length", len(req.Question)))

	w.Header().Set("Content-Type", "application/json")

	question := strings.ToLower(req.Question)
	for _, entry := range s.answers {
		if strings.Contains(question, entry.keyword) {
			json.NewEncoder(w).Encode(askResponse{
				Answer:      entry.answer,
				SourcesUsed: entry.sources,
			})
			return
		}
	}

	// Nothing matched: answer with no content, the client renders its
	// own fallback text.
	w.Write([]byte("{}\n"))
}
