package domain

import (
	"strings"
	"time"
)

// DefaultChatTitle is the title of a freshly created chat. While a chat
// still carries it, the title auto-derives from the first user message.
const DefaultChatTitle = "New Chat"

// titleMaxLen is the derived-title truncation length in runes.
const titleMaxLen = 50

// Chat is a single conversation thread owned by exactly one user and
// optionally grouped into one folder.
type Chat struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	FolderID  *uint     `json:"folder_id" gorm:"index"` // nil means unsorted
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveTitle returns the auto-generated title for the first user message
// of a chat: the message truncated to 50 runes, with an ellipsis appended
// when it was longer.
func DeriveTitle(firstUserMessage string) string {
	firstUserMessage = strings.TrimSpace(firstUserMessage)
	if firstUserMessage == "" {
		return DefaultChatTitle
	}
	runes := []rune(firstUserMessage)
	if len(runes) <= titleMaxLen {
		return firstUserMessage
	}
	return string(runes[:titleMaxLen]) + "..."
}
