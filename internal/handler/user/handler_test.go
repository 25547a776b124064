package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	userstore "github.com/roomwire/roomwire/internal/store/user"
)

type memoryCreator struct {
	created []*userstore.User
	err     error
}

func (m *memoryCreator) Create(_ context.Context, u *userstore.User) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, u)
	return nil
}

func setupRouter(creator *memoryCreator) *chi.Mux {
	r := chi.NewRouter()
	New(creator).RegisterRoutes(r)
	return r
}

func postRegister(r http.Handler, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRegisterCreatesUser(t *testing.T) {
	creator := &memoryCreator{}
	r := setupRouter(creator)

	resp := postRegister(r, map[string]string{
		"username": "alice",
		"email":    "alice@test",
		"password": "secret",
	})

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if len(creator.created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(creator.created))
	}
	created := creator.created[0]
	if created.ID == "" {
		t.Error("expected a generated user id")
	}
	if created.RoomIDs == nil || len(created.RoomIDs) != 0 {
		t.Errorf("new user should start with an empty room list, got %v", created.RoomIDs)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	creator := &memoryCreator{}
	r := setupRouter(creator)

	resp := postRegister(r, map[string]string{"username": "alice", "email": "alice@test"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Success || body.Message != "missing required fields" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(creator.created) != 0 {
		t.Fatal("no user should be created")
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	creator := &memoryCreator{err: errors.New("disk full")}
	r := setupRouter(creator)

	resp := postRegister(r, map[string]string{
		"username": "alice",
		"email":    "alice@test",
		"password": "secret",
	})

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
