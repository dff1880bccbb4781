package domain

import "time"

// DefaultMemoryCategory tags memories saved without an explicit category.
const DefaultMemoryCategory = "fact"

// Memory is a durable per-user fact that persists across chats, distinct
// from per-chat message history. The per-user set is bounded; inserting
// beyond the cap evicts the oldest entry.
type Memory struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"not null"`
	Category  string    `json:"category" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
