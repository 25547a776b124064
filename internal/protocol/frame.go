// Package protocol defines the wire frames exchanged over a relay
// connection and decodes inbound frames into a closed set of commands.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Command names accepted on the wire.
const (
	CmdLogin            = "login"
	CmdGetMessages      = "get-msg"
	CmdSendMessage      = "send-msg"
	CmdJoinRoomRequest  = "join-room-req"
	CmdJoinRoomResponse = "join-room-res"
	CmdCreateRoom       = "create-room"
	CmdLeaveRoom        = "leave-room"
)

var (
	// ErrEmptyBody marks frames that do not decode or lack a command or
	// payload. The sender gets an error reply and stays connected.
	ErrEmptyBody = errors.New("empty body is forbidden")

	// ErrUnknownCommand marks a command name outside the dispatch table.
	// It is logged at the frame boundary; no reply is sent.
	ErrUnknownCommand = errors.New("unknown command")
)

// Frame is the envelope of every inbound message: a command name plus a
// command-specific payload.
type Frame struct {
	Cmd  string          `json:"cmd"`
	Data json.RawMessage `json:"data"`
}

// Command is one of the seven decoded inbound commands.
type Command interface {
	isCommand()
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GetMessages struct {
	RoomID string `json:"roomId"`
}

type SendMessage struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type JoinRoomResponse struct {
	RoomID          string `json:"roomId"`
	UserID          string `json:"userId"`
	RequestAccepted bool   `json:"requestAccepted"`
}

type CreateRoom struct{}

type LeaveRoom struct {
	RoomID string `json:"roomId"`
}

func (Login) isCommand()            {}
func (GetMessages) isCommand()      {}
func (SendMessage) isCommand()      {}
func (JoinRoomRequest) isCommand()  {}
func (JoinRoomResponse) isCommand() {}
func (CreateRoom) isCommand()       {}
func (LeaveRoom) isCommand()        {}

// Decode parses a raw inbound frame into a typed command. Malformed or
// structurally incomplete frames yield ErrEmptyBody; a command name
// outside the table yields ErrUnknownCommand.
func Decode(raw []byte) (Command, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, ErrEmptyBody
	}
	if frame.Cmd == "" || len(frame.Data) == 0 || string(frame.Data) == "null" {
		return nil, ErrEmptyBody
	}

	switch frame.Cmd {
	case CmdLogin:
		return decodePayload[Login](frame.Data)
	case CmdGetMessages:
		return decodePayload[GetMessages](frame.Data)
	case CmdSendMessage:
		return decodePayload[SendMessage](frame.Data)
	case CmdJoinRoomRequest:
		return decodePayload[JoinRoomRequest](frame.Data)
	case CmdJoinRoomResponse:
		return decodePayload[JoinRoomResponse](frame.Data)
	case CmdCreateRoom:
		return decodePayload[CreateRoom](frame.Data)
	case CmdLeaveRoom:
		return decodePayload[LeaveRoom](frame.Data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, frame.Cmd)
	}
}

func decodePayload[T Command](data json.RawMessage) (Command, error) {
	var cmd T
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, ErrEmptyBody
	}
	return cmd, nil
}
