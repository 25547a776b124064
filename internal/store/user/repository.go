package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no user matches the query.
var ErrNotFound = errors.New("user not found")

// Repository provides access to user storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new user record.
func (r *Repository) Create(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByCredentials looks up the one user matching both email and
// password. The comparison is plaintext equality.
func (r *Repository) FindByCredentials(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		First(&user, "email = ? AND password = ?", email, password).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// AddRoom appends roomID to the user's persisted room list. Adding a
// room the user already has is a no-op.
func (r *Repository) AddRoom(ctx context.Context, userID, roomID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, userID)
		if err != nil {
			return err
		}
		if user.RoomIDs.Contains(roomID) {
			return nil
		}
		user.RoomIDs = append(user.RoomIDs, roomID)
		return saveRooms(tx, userID, user.RoomIDs)
	})
}

// RemoveRoom removes the first occurrence of roomID from the user's
// persisted room list. Removing an absent room is a no-op.
func (r *Repository) RemoveRoom(ctx context.Context, userID, roomID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, userID)
		if err != nil {
			return err
		}
		for i, id := range user.RoomIDs {
			if id == roomID {
				user.RoomIDs = append(user.RoomIDs[:i], user.RoomIDs[i+1:]...)
				return saveRooms(tx, userID, user.RoomIDs)
			}
		}
		return nil
	})
}

func findUser(tx *gorm.DB, userID string) (*User, error) {
	var user User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func saveRooms(tx *gorm.DB, userID string, rooms RoomIDList) error {
	err := tx.Model(&User{}).Where("id = ?", userID).Update("room_ids", rooms).Error
	if err != nil {
		return fmt.Errorf("failed to update room ids: %w", err)
	}
	return nil
}
