package relay

import (
	"log"

	"github.com/roomwire/roomwire/internal/model/chat"
	"github.com/roomwire/roomwire/internal/protocol"
)

// Conn delivers outbound frames to one physical connection. Sending to
// a connection that has already closed must be a no-op, not an error.
type Conn interface {
	Send(reply protocol.Reply) error
	Close() error
}

// Session is the server-side state for one live connection: the
// authenticated identity, the set of joined rooms, and the transport
// handle. A session starts unauthenticated with an empty room set and
// is registered for fan-out only after a successful login.
//
// identity and rooms are read and written from other sessions'
// goroutines during fan-out and the join handshake, so both are
// assigned inside the registry's critical section (Registry.Reset at
// login) and mutated only by Registry methods. The owning frame
// goroutine may read identity without the lock: it is the only
// goroutine that triggers reassignment.
type Session struct {
	conn     Conn
	identity *chat.Identity
	rooms    []string
}

// Identity returns the authenticated identity, or nil before login.
func (s *Session) Identity() *chat.Identity {
	return s.identity
}

func (s *Session) send(reply protocol.Reply) {
	if err := s.conn.Send(reply); err != nil {
		log.Printf("[relay] send failed: %v", err)
	}
}
