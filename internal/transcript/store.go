package transcript

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/englishcorner/chatclient/internal/kvstore"
	"github.com/englishcorner/chatclient/internal/tokens"
)

// HistoryKey is the storage key holding the serialized log. The session
// manager deletes it when a new session is minted.
const HistoryKey = "english_corner_chat_history"

// WelcomeText seeds an empty log with one assistant entry.
const WelcomeText = "Hi! Ask me anything about Forever English Corner."

const (
	historyCap  = 100
	fallbackCap = 50
)

// Store loads and persists the conversation log. Load and Persist never
// return an error: storage trouble degrades to an in-memory-only log, it
// is never surfaced to the user and never aborts the surrounding turn.
type Store struct {
	backend   kvstore.Backend
	logger    *slog.Logger
	estimator *tokens.Estimator
}

func NewStore(backend kvstore.Backend, logger *slog.Logger) *Store {
	return &Store{
		backend:   backend,
		logger:    logger,
		estimator: tokens.NewEstimator(),
	}
}

// Load reads the persisted log. A missing or unparseable value yields a
// fresh log seeded with the welcome entry, which is persisted best-effort
// so the next load sees it.
func (s *Store) Load(ctx context.Context) Log {
	raw, err := s.backend.Get(ctx, HistoryKey)
	if err == nil {
		var log Log
		if jsonErr := json.Unmarshal([]byte(raw), &log); jsonErr == nil {
			return log
		}
		s.logger.Warn("stored chat history is unparseable, reseeding",
			slog.Int("bytes", len(raw)))
	}

	seed := Log{{
		ID:         0,
		Text:       WelcomeText,
		Role:       RoleAssistant,
		TokenCount: s.estimator.Count(WelcomeText),
	}}
	s.Persist(ctx, seed)
	return seed
}

// Append returns a new log with one more entry. The entry id is the
// current log length, keeping ids dense and zero-based per session. The
// input log is not mutated.
func (s *Store) Append(log Log, text string, role Role) Log {
	entry := Entry{
		ID:         len(log),
		Text:       text,
		Role:       role,
		TokenCount: s.estimator.Count(text),
	}

	next := make(Log, len(log), len(log)+1)
	copy(next, log)
	return append(next, entry)
}

// Persist writes the last 100 entries. If the write fails (typically a
// quota limit), it retries with the last 50; a second failure is logged
// and dropped. The in-memory log the caller holds stays authoritative.
func (s *Store) Persist(ctx context.Context, log Log) {
	if err := s.write(ctx, tail(log, historyCap)); err != nil {
		if err := s.write(ctx, tail(log, fallbackCap)); err != nil {
			s.logger.Error("failed to persist chat history",
				slog.Int("entries", len(log)),
				slog.String("error", err.Error()))
		}
	}
}

func (s *Store) write(ctx context.Context, log Log) error {
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, HistoryKey, string(data))
}

// tail returns the last n entries in original order.
func tail(log Log, n int) Log {
	if len(log) <= n {
		return log
	}
	return log[len(log)-n:]
}
