package domain

// ChatMessage represents a single entry in the live chat view
type ChatMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"` // milliseconds since epoch
}
