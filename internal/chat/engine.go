// Package chat ties the session identity, conversation store, and
// protocol client together into the turn loop a front end drives.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/englishcorner/chatclient/internal/protocol"
	"github.com/englishcorner/chatclient/internal/session"
	"github.com/englishcorner/chatclient/internal/transcript"
)

// ErrEmptyInput is returned for input that is empty after trimming.
var ErrEmptyInput = errors.New("chat: input must not be empty")

// errorEntryPrefix heads the assistant entry that surfaces a failed
// exchange in the transcript.
const errorEntryPrefix = "Oops! Something went wrong.\n"

// Engine holds the state for one load cycle: the resolved session id and
// the in-memory log. It is driven from a single goroutine; the in-memory
// append always happens before any network suspension, so two rapid
// submissions cannot lose an entry.
type Engine struct {
	sessionID string
	log       transcript.Log
	store     *transcript.Store
	client    *protocol.Client
	logger    *slog.Logger
}

// NewEngine resolves the session and loads the initial log. Called once
// at startup.
func NewEngine(ctx context.Context, sessions *session.Manager, store *transcript.Store, client *protocol.Client, logger *slog.Logger) *Engine {
	return &Engine{
		sessionID: sessions.GetOrCreate(ctx),
		log:       store.Load(ctx),
		store:     store,
		client:    client,
		logger:    logger,
	}
}

// SessionID returns the id resolved at startup.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Log returns the current in-memory log. It is authoritative for the
// life of the process even when persistence degrades.
func (e *Engine) Log() transcript.Log {
	return e.log
}

// HandleTurn runs one exchange: append the outgoing user entry and
// persist, send the question, append the incoming entry (answer text or
// the surfaced failure) and persist again. The returned log reflects both
// appends; the outcome tells the caller what the assistant entry holds.
func (e *Engine) HandleTurn(ctx context.Context, text string) (protocol.Outcome, transcript.Log, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return protocol.Outcome{}, e.log, ErrEmptyInput
	}

	e.log = e.store.Append(e.log, text, transcript.RoleUser)
	e.store.Persist(ctx, e.log)

	outcome, err := e.client.Send(ctx, text, e.sessionID)
	if err != nil {
		// Contract violation; the user entry stays, nothing is appended for
		// the assistant.
		return protocol.Outcome{}, e.log, err
	}

	reply := ""
	switch {
	case outcome.Answer != nil:
		reply = outcome.Answer.Text
	case outcome.Failure != nil:
		reply = errorEntryPrefix + outcome.Failure.Message()
	}

	e.log = e.store.Append(e.log, reply, transcript.RoleAssistant)
	e.store.Persist(ctx, e.log)

	return outcome, e.log, nil
}
