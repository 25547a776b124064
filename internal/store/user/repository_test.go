package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, repo *Repository, email, password string, rooms ...string) *User {
	t.Helper()
	u := &User{
		ID:       uuid.NewString(),
		Username: email,
		Email:    email,
		Password: password,
		RoomIDs:  append(RoomIDList{}, rooms...),
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return u
}

func TestRepository_FindByCredentials(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	created := createUser(t, repo, "alice@test", "secret", "r1")

	found, err := repo.FindByCredentials(context.Background(), "alice@test", "secret")
	if err != nil {
		t.Fatalf("FindByCredentials() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("expected id %q, got %q", created.ID, found.ID)
	}
	if len(found.RoomIDs) != 1 || found.RoomIDs[0] != "r1" {
		t.Errorf("expected rooms [r1], got %v", found.RoomIDs)
	}

	// Both fields must match.
	if _, err := repo.FindByCredentials(context.Background(), "alice@test", "wrong"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong password: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.FindByCredentials(context.Background(), "bob@test", "secret"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong email: err = %v, want ErrNotFound", err)
	}
}

func TestRepository_AddRoom(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	created := createUser(t, repo, "alice@test", "secret")

	if err := repo.AddRoom(context.Background(), created.ID, "r1"); err != nil {
		t.Fatalf("AddRoom() error = %v", err)
	}
	// Adding the same room again is a no-op.
	if err := repo.AddRoom(context.Background(), created.ID, "r1"); err != nil {
		t.Fatalf("AddRoom() repeat error = %v", err)
	}

	found, err := repo.FindByCredentials(context.Background(), "alice@test", "secret")
	if err != nil {
		t.Fatalf("FindByCredentials() error = %v", err)
	}
	if len(found.RoomIDs) != 1 || found.RoomIDs[0] != "r1" {
		t.Errorf("expected rooms [r1], got %v", found.RoomIDs)
	}

	if err := repo.AddRoom(context.Background(), "missing", "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddRoom(missing) err = %v, want ErrNotFound", err)
	}
}

func TestRepository_RemoveRoom(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	created := createUser(t, repo, "alice@test", "secret", "r1", "r2")

	if err := repo.RemoveRoom(context.Background(), created.ID, "r1"); err != nil {
		t.Fatalf("RemoveRoom() error = %v", err)
	}
	// Removing an absent room is a no-op.
	if err := repo.RemoveRoom(context.Background(), created.ID, "r1"); err != nil {
		t.Fatalf("RemoveRoom() repeat error = %v", err)
	}

	found, err := repo.FindByCredentials(context.Background(), "alice@test", "secret")
	if err != nil {
		t.Fatalf("FindByCredentials() error = %v", err)
	}
	if len(found.RoomIDs) != 1 || found.RoomIDs[0] != "r2" {
		t.Errorf("expected rooms [r2], got %v", found.RoomIDs)
	}
}

func TestRoomIDListRoundTrip(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	createUser(t, repo, "alice@test", "secret")

	found, err := repo.FindByCredentials(context.Background(), "alice@test", "secret")
	if err != nil {
		t.Fatalf("FindByCredentials() error = %v", err)
	}
	if found.RoomIDs == nil {
		t.Error("empty room list should scan as an empty slice, not nil")
	}
	if len(found.RoomIDs) != 0 {
		t.Errorf("expected no rooms, got %v", found.RoomIDs)
	}
}
