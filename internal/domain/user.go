package domain

import (
	"errors"
	"math/rand"
	"time"
)

// avatarPalette is the set of colors assigned to new users when none is chosen.
var avatarPalette = []string{
	"#6366f1", "#8b5cf6", "#ec4899", "#f43f5e", "#f97316",
	"#eab308", "#22c55e", "#14b8a6", "#0ea5e9",
}

// User is a local chat profile. Users own chats, folders and memories and
// are only ever deleted explicitly.
type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color"`
	Settings  string    `json:"settings"` // free-form JSON blob of per-user preferences
	CreatedAt time.Time `json:"created_at"`
}

// NewUser builds a user with a palette color when none is given.
func NewUser(name, color string) *User {
	if color == "" {
		color = avatarPalette[rand.Intn(len(avatarPalette))]
	}
	return &User{Name: name, Color: color, Settings: "{}"}
}

func (u *User) IsValid() error {
	if u.Name == "" {
		return errors.New("user name is required")
	}
	return nil
}
