// Package stream holds the ephemeral, in-memory table of active recording
// sessions: a device pushes frames and heartbeats into a short-lived buffer
// that a later phone-initiated request drains and forwards to the AI call.
// Nothing in this package is persisted.
package stream

import "time"

// State is the lifecycle of one recording session. The device discovers work
// by polling heartbeats, so the start command is an explicit intermediate
// state rather than an ad hoc flag.
type State int

const (
	StateCreated State = iota
	StateStartRequested
	StateStreaming
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStartRequested:
		return "start-requested"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// DeviceState is what the device reports about itself in a heartbeat.
type DeviceState string

const (
	DeviceIdle      DeviceState = "idle"
	DeviceRecording DeviceState = "recording"
)

// Command is the instruction returned to a polling device.
type Command string

const (
	CommandNone           Command = ""
	CommandStartRecording Command = "start_recording"
)

// commandFor decides the heartbeat response purely from the device's reported
// state and the session's state. An idle device with a session that has not
// begun streaming is told to start; everything else is a no-op.
func commandFor(reported DeviceState, st State) Command {
	if reported == DeviceRecording {
		return CommandNone
	}
	switch st {
	case StateCreated, StateStartRequested:
		return CommandStartRecording
	}
	return CommandNone
}

// Frame is one device-pushed video frame held in the session buffer.
type Frame struct {
	Number  int    `json:"frame_number"`
	Payload string `json:"payload"` // base64, as pushed
	Size    int    `json:"size"`
}

// Session accumulates frames for one recording interaction. It lives only in
// process memory and is evicted by the TTL sweep once stale.
type Session struct {
	ID                string
	Username          string
	State             State
	Frames            []Frame
	FrameCount        int
	TargetFrameRate   int
	DeclaredTotal     int
	RecordingComplete bool
	CreatedAt         time.Time
}

// SampleIndices picks which of n frames to forward downstream: never all of
// them. One frame is sent as-is, two are both sent, three or more collapse to
// first, middle and last.
func SampleIndices(n int) []int {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []int{0}
	case n == 2:
		return []int{0, 1}
	}
	return []int{0, (n - 1) / 2, n - 1}
}

// SampleFrames applies SampleIndices to a drained buffer.
func SampleFrames(frames []Frame) []Frame {
	idx := SampleIndices(len(frames))
	out := make([]Frame, 0, len(idx))
	for _, i := range idx {
		out = append(out, frames[i])
	}
	return out
}
