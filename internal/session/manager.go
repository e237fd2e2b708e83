// Package session owns the durable anonymous session identity. A session
// pairs one device fingerprint with a creation timestamp and survives
// restarts until the device looks different or storage is cleared.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/englishcorner/chatclient/internal/device"
	"github.com/englishcorner/chatclient/internal/kvstore"
	"github.com/englishcorner/chatclient/internal/telemetry"
	"github.com/englishcorner/chatclient/internal/transcript"
)

const (
	sessionKey     = "english_corner_session_id"
	fingerprintKey = "english_corner_device_fingerprint"
)

// Manager resolves the session id once per load cycle and caches it;
// it is not safe for concurrent first use from multiple goroutines.
type Manager struct {
	backend kvstore.Backend
	env     device.Reader
	emitter telemetry.Emitter
	logger  *slog.Logger
	now     func() time.Time

	resolved string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the timestamp source for minted session ids.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(backend kvstore.Backend, env device.Reader, emitter telemetry.Emitter, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		env:     env,
		emitter: emitter,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the session id for this load cycle. A stored id is
// kept while the stored fingerprint still matches the freshly computed
// one; otherwise a new id is minted, both keys are rewritten, and the
// conversation history is cleared so a fresh log begins. Storage failures
// degrade to a transient in-memory id and never reach the caller.
func (m *Manager) GetOrCreate(ctx context.Context) string {
	if m.resolved != "" {
		return m.resolved
	}

	storedID := m.read(ctx, sessionKey)
	storedFP := m.read(ctx, fingerprintKey)
	currentFP := device.Fingerprint(m.env.Snapshot())

	if storedID != "" && storedFP == currentFP {
		m.resolved = storedID
		m.emitter.Emit("session_resumed", map[string]any{
			"session_id": storedID,
		})
		return m.resolved
	}

	id := fmt.Sprintf("session_%s_%d", currentFP, m.now().UnixMilli())
	m.write(ctx, sessionKey, id)
	m.write(ctx, fingerprintKey, currentFP)

	// Old history belongs to the previous device identity.
	if err := m.backend.Delete(ctx, transcript.HistoryKey); err != nil {
		m.logger.Warn("failed to clear chat history for new session",
			slog.String("error", err.Error()))
	}

	m.emitter.Emit("new_session_created", map[string]any{
		"session_id":     id,
		"device_changed": storedFP != "" && storedFP != currentFP,
	})

	m.resolved = id
	return m.resolved
}

func (m *Manager) read(ctx context.Context, key string) string {
	value, err := m.backend.Get(ctx, key)
	if err != nil {
		return ""
	}
	return value
}

func (m *Manager) write(ctx context.Context, key, value string) {
	if err := m.backend.Set(ctx, key, value); err != nil {
		m.logger.Warn("failed to persist session state",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
