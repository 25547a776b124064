package chat

// Identity names the authenticated user behind a session. It is embedded
// in logged messages and echoed in fan-out frames so recipients know who
// a message or join request came from.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
