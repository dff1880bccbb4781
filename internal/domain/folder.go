package domain

import "time"

// Folder groups chats in the sidebar. Deleting a folder reassigns its
// chats to unsorted; it never cascades into chat deletion.
type Folder struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color"`
	SortOrder int       `json:"order" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
