package relay

import (
	"sync"

	"github.com/roomwire/roomwire/internal/model/chat"
)

// Registry is the set of all registered live sessions, indexed by room
// membership for fan-out. Every read and mutation is atomic under one
// lock; the raw collections are never exposed. Room membership is a
// derived relation: a room "exists" exactly as long as some session or
// user record references its id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	byRoom   map[string]map[*Session]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[*Session]struct{}),
		byRoom:   make(map[string]map[*Session]struct{}),
	}
}

// Add registers a session and indexes its current room set. Sessions
// are visible to fan-out from this point.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = struct{}{}
	for _, roomID := range s.rooms {
		r.index(s, roomID)
	}
}

// Reset atomically replaces a session's identity and room set and
// (re-)registers it. Login goes through here so that a repeated login
// never leaves a window where another goroutine that already holds the
// session pointer can observe or mutate the room set mid-replacement.
func (r *Registry) Reset(s *Session, identity *chat.Identity, rooms []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s]; ok {
		for _, roomID := range s.rooms {
			r.unindex(s, roomID)
		}
	}
	s.identity = identity
	s.rooms = rooms
	r.sessions[s] = struct{}{}
	for _, roomID := range rooms {
		r.index(s, roomID)
	}
}

// Remove unregisters a session. Removing an unregistered session is a
// no-op.
func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s]; !ok {
		return
	}
	delete(r.sessions, s)
	for _, roomID := range s.rooms {
		r.unindex(s, roomID)
	}
}

// ByRoom returns every registered session whose room set contains
// roomID.
func (r *Registry) ByRoom(roomID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.byRoom[roomID]
	out := make([]*Session, 0, len(members))
	for s := range members {
		out = append(out, s)
	}
	return out
}

// ByUser returns a registered session authenticated as userID, or nil
// if that user is not currently connected.
func (r *Registry) ByUser(userID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for s := range r.sessions {
		if s.identity != nil && s.identity.UserID == userID {
			return s
		}
	}
	return nil
}

// Member reports whether roomID is in the session's room set.
func (r *Registry) Member(s *Session, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return s.member(roomID)
}

// Rooms returns a copy of the session's room set.
func (r *Registry) Rooms(s *Session) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, s.rooms...)
}

// JoinRoom adds roomID to the session's room set and the room index.
// It reports false, without mutating anything, if the session is
// already a member; callers rely on this check-and-add being atomic.
func (r *Registry) JoinRoom(s *Session, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.member(roomID) {
		return false
	}
	s.rooms = append(s.rooms, roomID)
	if _, ok := r.sessions[s]; ok {
		r.index(s, roomID)
	}
	return true
}

// LeaveRoom removes the first occurrence of roomID from the session's
// room set. Leaving a room the session is not in is a no-op; it reports
// whether anything changed.
func (r *Registry) LeaveRoom(s *Session, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range s.rooms {
		if id == roomID {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			if _, ok := r.sessions[s]; ok {
				r.unindex(s, roomID)
			}
			return true
		}
	}
	return false
}

func (s *Session) member(roomID string) bool {
	for _, id := range s.rooms {
		if id == roomID {
			return true
		}
	}
	return false
}

func (r *Registry) index(s *Session, roomID string) {
	members, ok := r.byRoom[roomID]
	if !ok {
		members = make(map[*Session]struct{})
		r.byRoom[roomID] = members
	}
	members[s] = struct{}{}
}

func (r *Registry) unindex(s *Session, roomID string) {
	members, ok := r.byRoom[roomID]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(r.byRoom, roomID)
	}
}
