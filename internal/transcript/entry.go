// Package transcript owns the conversation log: an append-only, bounded
// sequence of user and assistant turns, persisted best-effort through a
// kvstore backend.
package transcript

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one immutable turn in the conversation. IDs are dense and
// zero-based within a session; position in the log is authoritative.
type Entry struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Role       Role   `json:"role"`
	TokenCount int    `json:"token_count,omitempty"`
}

// Log is an ordered sequence of entries. Appends copy; a Log handed to a
// caller is never mutated underneath it.
type Log []Entry
