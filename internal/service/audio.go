package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/ai"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/stream"
)

// FrameSource yields buffered video frames captured alongside an audio clip.
type FrameSource interface {
	Drain(sessionID string) ([]stream.Frame, error)
	DrainCurrent(username string) ([]stream.Frame, string, error)
}

type AudioService struct {
	ai     AIClient
	frames FrameSource
}

func NewAudioService(client AIClient, frames FrameSource) *AudioService {
	return &AudioService{ai: client, frames: frames}
}

// jsonBlock grabs the outermost braces of a model reply that was asked to
// answer in JSON but tends to wrap it in prose or code fences.
var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

type assistantHearing struct {
	Transcription        string `json:"transcription"`
	EnvironmentalContext string `json:"environmental_context"`
	Setting              string `json:"setting"`
}

// Transcribe converts spoken audio to text. In assistant mode it also asks
// the model for an environmental read, optionally grounded on sampled frames
// from the device's current streaming session.
func (s *AudioService) Transcribe(ctx context.Context, req dto.AudioRequest) (dto.AudioResponse, error) {
	audioPart, err := ai.MediaPart(req.Audio)
	if err != nil {
		return dto.AudioResponse{}, fmt.Errorf("invalid audio payload: %w", err)
	}

	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		mode = domain.ModeSustainability
	}

	parts := []ai.Part{}
	if mode == domain.ModeAssistant {
		parts = append(parts, ai.TextPart(s.assistantHearingPrompt(req)))
	} else {
		parts = append(parts, ai.TextPart("Transcribe this audio to text. Return only the transcribed words, nothing else."))
	}
	parts = append(parts, audioPart)

	if mode == domain.ModeAssistant {
		parts = append(parts, s.framesFor(req)...)
	}

	reply, err := s.ai.GenerateContent(ctx, parts)
	if err != nil {
		slog.Error("audio: ai call failed", "username", req.Username, "error", err)
		return dto.AudioResponse{}, fmt.Errorf("transcription failed: %w", err)
	}

	if mode != domain.ModeAssistant {
		return dto.AudioResponse{Text: strings.TrimSpace(reply)}, nil
	}

	var hearing assistantHearing
	if raw := jsonBlock.FindString(reply); raw != "" {
		if err := json.Unmarshal([]byte(raw), &hearing); err != nil {
			slog.Warn("audio: unparseable hearing json", "username", req.Username, "error", err)
		}
	}
	if hearing.Transcription == "" {
		// Fall back to treating the whole reply as the transcript.
		hearing.Transcription = strings.TrimSpace(reply)
	}
	return dto.AudioResponse{
		Text:                 hearing.Transcription,
		EnvironmentalContext: hearing.EnvironmentalContext,
		Setting:              hearing.Setting,
	}, nil
}

func (s *AudioService) assistantHearingPrompt(req dto.AudioRequest) string {
	var b strings.Builder
	b.WriteString(`Listen to this audio and respond with a JSON object of exactly this shape:
{"transcription": "<the spoken words>", "environmental_context": "<ambient sounds, who else might be present>", "setting": "<best guess at the location or situation>"}
Return only the JSON object.`)

	if n := len(req.EnvironmentMemory); n > 0 {
		recent := req.EnvironmentMemory
		if n > 5 {
			recent = recent[n-5:]
		}
		b.WriteString("\n\nRecent environmental observations for continuity:\n")
		for _, obs := range recent {
			b.WriteString("- " + obs + "\n")
		}
	}
	return b.String()
}

// framesFor pulls and samples any buffered frames. Frame trouble never fails
// the transcription; audio alone is always enough.
func (s *AudioService) framesFor(req dto.AudioRequest) []ai.Part {
	if s.frames == nil {
		return nil
	}

	var (
		frames    []stream.Frame
		sessionID = req.SessionID
		err       error
	)
	if sessionID != "" {
		frames, err = s.frames.Drain(sessionID)
		// Clients often send their chat session id here, not a streaming
		// buffer id; fall back to the user's current session in that case.
		if errors.Is(err, domain.ErrSessionNotFound) && req.Username != "" {
			frames, sessionID, err = s.frames.DrainCurrent(req.Username)
		}
	} else if req.Username != "" {
		frames, sessionID, err = s.frames.DrainCurrent(req.Username)
	}
	if err != nil {
		slog.Warn("audio: no frames available", "username", req.Username, "session_id", sessionID, "error", err)
		return nil
	}
	sampled := stream.SampleFrames(frames)
	if len(sampled) == 0 {
		return nil
	}
	slog.Info("audio: attaching sampled frames", "session_id", sessionID, "buffered", len(frames), "sampled", len(sampled))

	parts := make([]ai.Part, 0, len(sampled)+1)
	parts = append(parts, ai.TextPart(fmt.Sprintf("Also use these %d video frames captured while the audio was recorded to ground the environmental context.", len(sampled))))
	for _, f := range sampled {
		parts = append(parts, ai.InlinePart("image/jpeg", f.Payload))
	}
	return parts
}
