// Package user persists account records: credentials plus the ordered
// list of room ids the account belongs to.
package user

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User is an account record. Passwords are stored and compared in
// plaintext; a known weakness carried over from the system this relay
// replaces, kept pending a product decision on hashing.
type User struct {
	ID        string     `gorm:"primarykey;size:36" json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Username  string     `gorm:"size:100;not null" json:"username"`
	Email     string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	RoomIDs   RoomIDList `gorm:"type:text" json:"roomIds"`
}

// TableName returns the table name for the User model.
func (User) TableName() string {
	return "users"
}

// RoomIDList stores a user's room ids as a JSON-encoded text column.
type RoomIDList []string

// Value implements driver.Valuer.
func (l RoomIDList) Value() (driver.Value, error) {
	if l == nil {
		l = RoomIDList{}
	}
	encoded, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode room ids: %w", err)
	}
	return string(encoded), nil
}

// Scan implements sql.Scanner.
func (l *RoomIDList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*l = RoomIDList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported room id column type %T", value)
	}
}

// Contains reports whether roomID is in the list.
func (l RoomIDList) Contains(roomID string) bool {
	for _, id := range l {
		if id == roomID {
			return true
		}
	}
	return false
}
