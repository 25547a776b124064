package message

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Log provides access to message storage.
type Log struct {
	db *gorm.DB
}

// NewLog creates a new message log.
func NewLog(db *gorm.DB) *Log {
	return &Log{db: db}
}

// Append durably records a message, assigning it an id and a
// server-side timestamp if one is not already set.
func (l *Log) Append(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if err := l.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListByRoom returns every logged message for the room, oldest first.
func (l *Log) ListByRoom(ctx context.Context, roomID string) ([]Message, error) {
	var messages []Message
	err := l.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
