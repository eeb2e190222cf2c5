package domain

// Turn carries one (user input, assistant output) pair to persist. SessionID
// is retained only as metadata for auxiliary joins; username is the durable
// partition key.
type Turn struct {
	SessionID     string
	Username      string
	Mode          Mode
	UserText      string
	AssistantText string
	HasMedia      bool
	MediaKind     MediaKind
	Memory        *DetailedMemory
}

// AuthResult is the outcome of a registration or login attempt. Reason is a
// short user-facing string, populated only when OK is false.
type AuthResult struct {
	OK       bool   `json:"success"`
	Username string `json:"username,omitempty"`
	Reason   string `json:"error,omitempty"`
}
