package protocol

import (
	"errors"
	"testing"
)

func TestDecodeCommands(t *testing.T) {
	cmd, err := Decode([]byte(`{"cmd":"login","data":{"email":"a@b.c","password":"pw"}}`))
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}
	login, ok := cmd.(Login)
	if !ok {
		t.Fatalf("expected Login, got %T", cmd)
	}
	if login.Email != "a@b.c" || login.Password != "pw" {
		t.Fatalf("unexpected login payload: %+v", login)
	}

	cmd, err = Decode([]byte(`{"cmd":"send-msg","data":{"roomId":"r1","content":"hi"}}`))
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}
	send, ok := cmd.(SendMessage)
	if !ok {
		t.Fatalf("expected SendMessage, got %T", cmd)
	}
	if send.RoomID != "r1" || send.Content != "hi" {
		t.Fatalf("unexpected send payload: %+v", send)
	}

	cmd, err = Decode([]byte(`{"cmd":"join-room-res","data":{"roomId":"r1","userId":"u2","requestAccepted":true}}`))
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}
	res, ok := cmd.(JoinRoomResponse)
	if !ok {
		t.Fatalf("expected JoinRoomResponse, got %T", cmd)
	}
	if !res.RequestAccepted || res.UserID != "u2" {
		t.Fatalf("unexpected response payload: %+v", res)
	}

	if _, err := Decode([]byte(`{"cmd":"create-room","data":{}}`)); err != nil {
		t.Fatalf("Decode create-room err: %v", err)
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	cases := []string{
		`not json`,
		`{}`,
		`{"cmd":"login"}`,
		`{"data":{"roomId":"r1"}}`,
		`{"cmd":"login","data":null}`,
	}
	for _, raw := range cases {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrEmptyBody) {
			t.Fatalf("Decode(%q) = %v, want ErrEmptyBody", raw, err)
		}
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	_, err := Decode([]byte(`{"cmd":"shout","data":{}}`))
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("Decode = %v, want ErrUnknownCommand", err)
	}
}
