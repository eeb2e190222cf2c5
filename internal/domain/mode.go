package domain

import "fmt"

// Mode is one of the two fixed conversational personas a user can address.
// Histories are persisted per mode and merged asymmetrically for context:
// the personal-assistant mode sees sustainability history, never the reverse.
type Mode string

const (
	ModeSustainability Mode = "sustainability"
	ModeAssistant      Mode = "personal-assistant"
)

// ParseMode validates a wire-level mode literal. The empty string maps to
// sustainability, the default mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeSustainability):
		return ModeSustainability, nil
	case string(ModeAssistant):
		return ModeAssistant, nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// MediaKind classifies the media attached to a turn, if any.
type MediaKind string

const (
	MediaNone  MediaKind = ""
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)
