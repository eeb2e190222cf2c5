package dto

// AudioRequest carries a recorded clip for transcription. EnvironmentMemory
// is an optional rolling list of prior environment observations the client
// keeps; SessionID, when it names a live streaming session, lets the server
// attach that session's sampled frames to the same AI call.
type AudioRequest struct {
	Audio             string   `json:"audio"`
	Username          string   `json:"username"`
	SessionID         string   `json:"session_id"`
	Mode              string   `json:"mode"`
	EnvironmentMemory []string `json:"environment_memory,omitempty"`
}

type AudioResponse struct {
	Text                 string `json:"text"`
	EnvironmentalContext string `json:"environmental_context,omitempty"`
	Setting              string `json:"setting,omitempty"`
}
