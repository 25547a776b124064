// Package user exposes the plain request/response account endpoints.
package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	userstore "github.com/roomwire/roomwire/internal/store/user"
	"github.com/roomwire/roomwire/pkg/utils"
)

// Creator is the slice of user storage registration needs.
type Creator interface {
	Create(ctx context.Context, user *userstore.User) error
}

// Handler serves user registration.
type Handler struct {
	users Creator
}

// New creates a user handler.
func New(users Creator) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes registers the user routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/users/register", h.handleRegister)
}

// handleRegister creates an account with an empty room list.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "missing required fields",
		})
		return
	}

	newUser := &userstore.User{
		ID:       uuid.NewString(),
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		RoomIDs:  userstore.RoomIDList{},
	}
	if err := h.users.Create(r.Context(), newUser); err != nil {
		log.Printf("[user] create failed: %v", err)
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "failed to create user",
		})
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "user created",
	})
}
