// Package relay implements the session/command protocol engine: the
// per-connection state machine, room-membership bookkeeping, message
// fan-out, and the two-step join-request/approval handshake.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/roomwire/roomwire/internal/model/chat"
	"github.com/roomwire/roomwire/internal/protocol"
	"github.com/roomwire/roomwire/internal/store/message"
	"github.com/roomwire/roomwire/internal/store/user"
)

// CredentialStore is the slice of user storage the relay depends on.
type CredentialStore interface {
	FindByCredentials(ctx context.Context, email, password string) (*user.User, error)
	AddRoom(ctx context.Context, userID, roomID string) error
	RemoveRoom(ctx context.Context, userID, roomID string) error
}

// MessageLog is the slice of message storage the relay depends on.
// Append is fire-and-forget from the relay's perspective.
type MessageLog interface {
	Append(ctx context.Context, msg *message.Message) error
	ListByRoom(ctx context.Context, roomID string) ([]message.Message, error)
}

// Service routes decoded commands to their handlers. Frames from one
// session are processed serially by its connection goroutine; frames
// from different sessions run concurrently, synchronized only through
// the registry.
type Service struct {
	registry *Registry
	users    CredentialStore
	messages MessageLog
}

// NewService creates a relay over the given collaborators.
func NewService(users CredentialStore, messages MessageLog) *Service {
	return &Service{
		registry: NewRegistry(),
		users:    users,
		messages: messages,
	}
}

// Registry exposes the live-session registry, mainly for tests and
// diagnostics.
func (s *Service) Registry() *Registry {
	return s.registry
}

// NewSession creates the unauthenticated session for a freshly opened
// connection. The session joins the registry only on successful login.
func (s *Service) NewSession(conn Conn) *Session {
	return &Session{conn: conn}
}

// Disconnect removes a session from the registry after its connection
// has gone away. In-flight fan-outs that already captured the session
// degrade to no-op sends.
func (s *Service) Disconnect(sess *Session) {
	s.registry.Remove(sess)
}

// HandleFrame decodes one inbound frame and dispatches it. Malformed
// frames and precondition violations are reported to the sender; an
// unrecognized command is logged and otherwise ignored so the
// connection stays usable.
func (s *Service) HandleFrame(ctx context.Context, sess *Session, raw []byte) {
	cmd, err := protocol.Decode(raw)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownCommand) {
			log.Printf("[relay] %v", err)
			return
		}
		sess.send(protocol.EmptyBody())
		return
	}

	if sess.identity == nil {
		login, ok := cmd.(protocol.Login)
		if !ok {
			sess.send(protocol.LoginRequired())
			return
		}
		s.handleLogin(ctx, sess, login)
		return
	}

	switch c := cmd.(type) {
	case protocol.Login:
		s.handleLogin(ctx, sess, c)
	case protocol.GetMessages:
		s.handleGetMessages(ctx, sess, c)
	case protocol.SendMessage:
		s.handleSendMessage(ctx, sess, c)
	case protocol.JoinRoomRequest:
		s.handleJoinRoomRequest(sess, c)
	case protocol.JoinRoomResponse:
		s.handleJoinRoomResponse(ctx, sess, c)
	case protocol.CreateRoom:
		s.handleCreateRoom(ctx, sess)
	case protocol.LeaveRoom:
		s.handleLeaveRoom(ctx, sess, c)
	}
}

// handleLogin authenticates the session. A failed login is the only
// failure that force-closes the connection.
func (s *Service) handleLogin(ctx context.Context, sess *Session, cmd protocol.Login) {
	account, err := s.users.FindByCredentials(ctx, cmd.Email, cmd.Password)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.Printf("[relay] credential lookup failed: %v", err)
		}
		sess.send(protocol.Failure("login failed", nil))
		if closeErr := sess.conn.Close(); closeErr != nil {
			log.Printf("[relay] close after failed login: %v", closeErr)
		}
		return
	}

	// A repeated login replaces the session's identity and room set;
	// Reset swaps both inside the registry's critical section so a
	// concurrent handshake acceptance never mutates the set mid-swap.
	rooms := append([]string{}, account.RoomIDs...)
	s.registry.Reset(sess, &chat.Identity{UserID: account.ID, Email: account.Email}, rooms)

	sess.send(protocol.OK("login success", map[string]any{
		"userId":  account.ID,
		"email":   account.Email,
		"roomIds": rooms,
	}))
}

// handleSendMessage fans a message out to every live member of the room
// and appends it to the message log. Fan-out happens first; the append
// is fire-and-forget and its failure does not roll back delivery.
func (s *Service) handleSendMessage(ctx context.Context, sess *Session, cmd protocol.SendMessage) {
	if !s.registry.Member(sess, cmd.RoomID) {
		sess.send(protocol.Failure(
			fmt.Sprintf("you are not allowed to send message to room %s", cmd.RoomID), nil))
		return
	}

	frame := protocol.OK(protocol.CmdSendMessage, map[string]any{
		"from":      *sess.identity,
		"content":   cmd.Content,
		"timestamp": timestamp(),
	})
	for _, receiver := range s.registry.ByRoom(cmd.RoomID) {
		receiver.send(frame)
	}

	record := &message.Message{
		RoomID:  cmd.RoomID,
		From:    *sess.identity,
		Content: cmd.Content,
	}
	go func() {
		if err := s.messages.Append(context.WithoutCancel(ctx), record); err != nil {
			log.Printf("[relay] message append failed room=%s: %v", cmd.RoomID, err)
		}
	}()
}

// handleGetMessages returns the full logged history of a room the
// session is a member of.
func (s *Service) handleGetMessages(ctx context.Context, sess *Session, cmd protocol.GetMessages) {
	if !s.registry.Member(sess, cmd.RoomID) {
		sess.send(protocol.Failure(protocol.CmdGetMessages, map[string]any{"roomId": cmd.RoomID}))
		return
	}

	messages, err := s.messages.ListByRoom(ctx, cmd.RoomID)
	if err != nil {
		log.Printf("[relay] message list failed room=%s: %v", cmd.RoomID, err)
		sess.send(protocol.Failure(protocol.CmdGetMessages, map[string]any{"roomId": cmd.RoomID}))
		return
	}
	if messages == nil {
		messages = []message.Message{}
	}

	sess.send(protocol.OK("get-message", map[string]any{
		"roomId":    cmd.RoomID,
		"messages":  messages,
		"timestamp": timestamp(),
	}))
}

// handleCreateRoom mints a fresh room id and adds it to both the
// session's room set and the persisted record. Creation is unilateral;
// no handshake is involved.
func (s *Service) handleCreateRoom(ctx context.Context, sess *Session) {
	roomID := uuid.NewString()

	// Persist first so the session's room set never holds a room the
	// record lost to a store failure.
	if err := s.users.AddRoom(ctx, sess.identity.UserID, roomID); err != nil {
		log.Printf("[relay] persist create-room failed user=%s: %v", sess.identity.UserID, err)
		sess.send(protocol.Failure(protocol.CmdCreateRoom, nil))
		return
	}
	s.registry.JoinRoom(sess, roomID)

	sess.send(protocol.OK(protocol.CmdCreateRoom, map[string]any{
		"roomId":    roomID,
		"timestamp": timestamp(),
	}))
}

// handleLeaveRoom drops the room from the session and the persisted
// record. Leaving a room the session never joined still replies with
// success.
func (s *Service) handleLeaveRoom(ctx context.Context, sess *Session, cmd protocol.LeaveRoom) {
	if err := s.users.RemoveRoom(ctx, sess.identity.UserID, cmd.RoomID); err != nil {
		log.Printf("[relay] persist leave-room failed user=%s: %v", sess.identity.UserID, err)
		sess.send(protocol.Failure(protocol.CmdLeaveRoom, nil))
		return
	}
	s.registry.LeaveRoom(sess, cmd.RoomID)

	sess.send(protocol.OK(protocol.CmdLeaveRoom, map[string]any{
		"roomId":    cmd.RoomID,
		"timestamp": timestamp(),
	}))
}

// handleJoinRoomRequest broadcasts a join request to every current
// member of the room. The ack to the requester only confirms the
// broadcast; nothing guarantees any member will respond.
func (s *Service) handleJoinRoomRequest(sess *Session, cmd protocol.JoinRoomRequest) {
	request := protocol.Failure(protocol.CmdJoinRoomRequest, map[string]any{
		"from":      sess.identity.Email,
		"userId":    sess.identity.UserID,
		"roomId":    cmd.RoomID,
		"timestamp": timestamp(),
	})
	for _, approver := range s.registry.ByRoom(cmd.RoomID) {
		approver.send(request)
	}

	sess.send(protocol.OK("join-room-request", nil))
}

// handleJoinRoomResponse resolves one member's decision on a pending
// join request. Denials are silent. An acceptance is silently dropped
// when the requester is offline or already a member; with no
// server-held request ledger, that membership check is the only guard
// against concurrent duplicate acceptances.
func (s *Service) handleJoinRoomResponse(ctx context.Context, sess *Session, cmd protocol.JoinRoomResponse) {
	if !cmd.RequestAccepted {
		return
	}

	requester := s.registry.ByUser(cmd.UserID)
	if requester == nil {
		return
	}
	if !s.registry.JoinRoom(requester, cmd.RoomID) {
		return
	}

	if err := s.users.AddRoom(ctx, cmd.UserID, cmd.RoomID); err != nil {
		log.Printf("[relay] persist join failed user=%s room=%s: %v", cmd.UserID, cmd.RoomID, err)
		s.registry.LeaveRoom(requester, cmd.RoomID)
		sess.send(protocol.Failure(protocol.CmdJoinRoomResponse, nil))
		return
	}

	sess.send(protocol.OK(protocol.CmdJoinRoomResponse, map[string]any{
		"requestUserId": cmd.UserID,
		"requestRoomId": cmd.RoomID,
	}))
	requester.send(protocol.OK(protocol.CmdJoinRoomResponse, map[string]any{
		"approver": *sess.identity,
		"roomId":   cmd.RoomID,
	}))
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
