package domain

import "github.com/NamaiBest/SDG-Chat-Bot/internal/jsondoc"

// Message is one stored (user input, assistant output) turn. Messages are
// immutable once written; corrections are appended as new turns. Timestamps
// are ISO-8601 strings assigned at write time, and ordering across stores and
// mode buckets is by timestamp, not insertion index.
type Message struct {
	Timestamp     string    `json:"timestamp"`
	SessionID     string    `json:"session_id,omitempty"`
	UserText      string    `json:"user_message"`
	AssistantText string    `json:"bot_response"`
	HasMedia      bool      `json:"has_media"`
	MediaKind     MediaKind `json:"media_type,omitempty"`
}

// DetailedMemory is an optional side record attached to a turn that included
// media analysis. Extraction is an open key/value document; its shape varies
// with the content analyzed and is stored opaquely, never validated.
type DetailedMemory struct {
	Timestamp   string       `json:"timestamp"`
	MediaKind   MediaKind    `json:"media_type,omitempty"`
	RawAnalysis string       `json:"detailed_analysis"`
	Extraction  jsondoc.JSON `json:"extracted_memory,omitempty"`
}

// Conversation is the per-(username, mode) message log. It is created lazily
// on first save and grows without compaction.
type Conversation struct {
	Username         string           `json:"username"`
	Mode             Mode             `json:"mode"`
	Messages         []Message        `json:"messages"`
	DetailedMemories []DetailedMemory `json:"detailed_memories"`
}
