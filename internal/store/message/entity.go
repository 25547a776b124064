// Package message is the append-only log of chat messages, retrievable
// by room.
package message

import (
	"time"

	"github.com/roomwire/roomwire/internal/model/chat"
)

// Message is one logged chat message. Records are immutable once
// written.
type Message struct {
	ID        string        `gorm:"primarykey;size:36" json:"id"`
	RoomID    string        `gorm:"size:36;index;not null" json:"roomId"`
	From      chat.Identity `gorm:"embedded;embeddedPrefix:from_" json:"from"`
	Content   string        `gorm:"type:text" json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
}

// TableName returns the table name for the Message model.
func (Message) TableName() string {
	return "messages"
}
