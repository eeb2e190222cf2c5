package dto

// ChatRequest is the user-facing chat body. Image and Video are optional
// data URLs; VideoContext is a free-text hint attached to media analysis.
type ChatRequest struct {
	Message      string `json:"message"`
	Username     string `json:"username"`
	SessionID    string `json:"session_id"`
	Mode         string `json:"mode"`
	Image        string `json:"image,omitempty"`
	Video        string `json:"video,omitempty"`
	VideoContext string `json:"video_context,omitempty"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}
