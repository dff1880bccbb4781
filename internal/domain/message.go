package domain

import "time"

// Message roles. Only user and assistant turns are persisted; tool-call
// plumbing messages live solely inside a request's tool loop.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn within a chat. Messages are append-only and
// insertion-ordered; content never changes after it is stored.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ChatID    uint      `json:"chat_id" gorm:"not null;index"`
	Role      string    `json:"role" gorm:"not null"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"` // optional data URI attached to a user turn
	CreatedAt time.Time `json:"created_at"`
}
