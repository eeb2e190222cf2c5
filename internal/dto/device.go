package dto

type DeviceRegisterRequest struct {
	DeviceID   string `json:"device_id"`
	Username   string `json:"username"`
	DeviceName string `json:"device_name"`
	MacAddress string `json:"mac_address"`
}

// HeartbeatRequest is the device's poll. Status is what the device reports
// about itself ("idle" or "recording"); the reply may carry a start command.
type HeartbeatRequest struct {
	DeviceID string `json:"device_id"`
	Status   string `json:"status,omitempty"`
}

type SessionStartRequest struct {
	Username  string `json:"username"`
	FrameRate int    `json:"frame_rate,omitempty"`
}

type SessionStartResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

type FramePushRequest struct {
	SessionID   string `json:"session_id"`
	FrameNumber int    `json:"frame_number"`
	Frame       string `json:"frame"` // base64
	Size        int    `json:"size,omitempty"`
}

type SessionEndRequest struct {
	SessionID   string `json:"session_id"`
	TotalFrames int    `json:"total_frames"`
}
