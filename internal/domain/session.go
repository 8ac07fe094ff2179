package domain

// SessionMessage is one durable question/answer exchange within a session
type SessionMessage struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp int64  `json:"timestamp"`
}

// SessionSummary represents a named conversation persisted across restarts.
// Messages holds the replayable form of the conversation, distinct from the
// transient ChatMessage pairs shown in the live view.
type SessionSummary struct {
	SessionID string           `json:"session_id"`
	FileID    string           `json:"file_id,omitempty"`
	FileName  string           `json:"file_name,omitempty"`
	CreatedAt int64            `json:"created_at"`
	UpdatedAt int64            `json:"updated_at"`
	Messages  []SessionMessage `json:"messages"`
}
