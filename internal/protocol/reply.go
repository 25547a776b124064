package protocol

// Reply is the envelope of every outbound frame.
type Reply struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
}

// EmptyBody is sent back for frames that fail to decode.
func EmptyBody() Reply {
	return Reply{Message: "empty body is forbidden"}
}

// LoginRequired is sent back for any non-login command on an
// unauthenticated session.
func LoginRequired() Reply {
	return Reply{Message: "login required"}
}

// Failure builds a scoped failure reply.
func Failure(message string, data any) Reply {
	return Reply{Message: message, Data: data}
}

// OK builds a success reply.
func OK(message string, data any) Reply {
	return Reply{Message: message, Success: true, Data: data}
}
