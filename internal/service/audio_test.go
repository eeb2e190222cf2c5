package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/dto"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/stream"
)

type stubFrames struct {
	frames    map[string][]stream.Frame
	currentID string
}

func (s *stubFrames) Drain(sessionID string) ([]stream.Frame, error) {
	frames, ok := s.frames[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return frames, nil
}

func (s *stubFrames) DrainCurrent(username string) ([]stream.Frame, string, error) {
	if s.currentID == "" {
		return nil, "", domain.ErrSessionNotFound
	}
	frames, err := s.Drain(s.currentID)
	return frames, s.currentID, err
}

func TestTranscribeRejectsMalformedAudio(t *testing.T) {
	svc := NewAudioService(&stubAI{}, nil)
	if _, err := svc.Transcribe(context.Background(), dto.AudioRequest{Audio: "not-a-data-url"}); err == nil {
		t.Fatalf("expected error for malformed audio payload")
	}
}

func TestTranscribeSustainabilityPlainText(t *testing.T) {
	client := &stubAI{reply: "  turn off the lights \n"}
	svc := NewAudioService(client, nil)

	resp, err := svc.Transcribe(context.Background(), dto.AudioRequest{
		Audio:    "data:audio/wav;base64,YXVkaW8=",
		Username: "alice",
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if resp.Text != "turn off the lights" {
		t.Fatalf("unexpected transcript: %q", resp.Text)
	}
	if resp.EnvironmentalContext != "" || resp.Setting != "" {
		t.Fatalf("sustainability mode should not produce environmental fields: %+v", resp)
	}
}

func TestTranscribeAssistantParsesJSON(t *testing.T) {
	client := &stubAI{reply: "Here you go:\n{\"transcription\": \"open the window\", \"environmental_context\": \"traffic noise\", \"setting\": \"city apartment\"}"}
	svc := NewAudioService(client, &stubFrames{})

	resp, err := svc.Transcribe(context.Background(), dto.AudioRequest{
		Audio:    "data:audio/wav;base64,YXVkaW8=",
		Username: "alice",
		Mode:     string(domain.ModeAssistant),
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if resp.Text != "open the window" || resp.EnvironmentalContext != "traffic noise" || resp.Setting != "city apartment" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTranscribeAssistantUnparseableFallsBack(t *testing.T) {
	client := &stubAI{reply: "just words, no json"}
	svc := NewAudioService(client, &stubFrames{})

	resp, err := svc.Transcribe(context.Background(), dto.AudioRequest{
		Audio: "data:audio/wav;base64,YXVkaW8=",
		Mode:  string(domain.ModeAssistant),
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if resp.Text != "just words, no json" {
		t.Fatalf("expected raw reply fallback, got %q", resp.Text)
	}
}

func TestTranscribeAttachesSampledFrames(t *testing.T) {
	frames := &stubFrames{frames: map[string][]stream.Frame{
		"stream_1": {
			{Number: 0, Payload: "f0"},
			{Number: 1, Payload: "f1"},
			{Number: 2, Payload: "f2"},
			{Number: 3, Payload: "f3"},
			{Number: 4, Payload: "f4"},
		},
	}}
	client := &stubAI{reply: "{\"transcription\": \"hello\"}"}
	svc := NewAudioService(client, frames)

	_, err := svc.Transcribe(context.Background(), dto.AudioRequest{
		Audio:     "data:audio/wav;base64,YXVkaW8=",
		Username:  "alice",
		Mode:      string(domain.ModeAssistant),
		SessionID: "stream_1",
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}

	parts := client.calls[0]
	// prompt + audio + frame note + 3 sampled frames
	var inline []string
	for _, p := range parts {
		if p.InlineData != nil && p.InlineData.MimeType == "image/jpeg" {
			inline = append(inline, p.InlineData.Data)
		}
	}
	if len(inline) != 3 || inline[0] != "f0" || inline[1] != "f2" || inline[2] != "f4" {
		t.Fatalf("expected first/middle/last frames, got %v", inline)
	}
}

func TestTranscribeFallsBackToCurrentSession(t *testing.T) {
	frames := &stubFrames{
		frames:    map[string][]stream.Frame{"stream_9": {{Number: 0, Payload: "f0"}}},
		currentID: "stream_9",
	}
	client := &stubAI{reply: "{\"transcription\": \"hi\"}"}
	svc := NewAudioService(client, frames)

	_, err := svc.Transcribe(context.Background(), dto.AudioRequest{
		Audio:    "data:audio/wav;base64,YXVkaW8=",
		Username: "alice",
		Mode:     string(domain.ModeAssistant),
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	found := false
	for _, p := range client.calls[0] {
		if p.InlineData != nil && p.InlineData.Data == "f0" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected frame from current session in AI call")
	}
}

func TestTranscribeChatSessionIDFallsBackToCurrentSession(t *testing.T) {
	// Clients reuse their chat session id in the audio request; it is not a
	// streaming buffer id, so the user's current session must still be drained.
	frames := &stubFrames{
		frames:    map[string][]stream.Frame{"stream_7": {{Number: 0, Payload: "f0"}}},
		currentID: "stream_7",
	}
	client := &stubAI{reply: "{\"transcription\": \"hi\"}"}
	svc := NewAudioService(client, frames)

	_, err := svc.Transcribe(context.Background(), dto.AudioRequest{
		Audio:     "data:audio/wav;base64,YXVkaW8=",
		Username:  "alice",
		Mode:      string(domain.ModeAssistant),
		SessionID: "0b5c9f2e-8a41-4f7d-9c36-2f6f6f0a1b2c",
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	found := false
	for _, p := range client.calls[0] {
		if p.InlineData != nil && p.InlineData.Data == "f0" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected current-session frame despite unknown session id")
	}
}

func TestTranscribeMissingFramesNotFatal(t *testing.T) {
	client := &stubAI{reply: "{\"transcription\": \"hi\"}"}
	svc := NewAudioService(client, &stubFrames{})

	resp, err := svc.Transcribe(context.Background(), dto.AudioRequest{
		Audio:     "data:audio/wav;base64,YXVkaW8=",
		Username:  "alice",
		Mode:      string(domain.ModeAssistant),
		SessionID: "stream_gone",
	})
	if err != nil {
		t.Fatalf("missing frames should not fail transcription: %v", err)
	}
	if resp.Text != "hi" {
		t.Fatalf("unexpected transcript: %q", resp.Text)
	}
}

func TestTranscribeAIFailure(t *testing.T) {
	svc := NewAudioService(&stubAI{err: errors.New("down")}, nil)
	if _, err := svc.Transcribe(context.Background(), dto.AudioRequest{Audio: "data:audio/wav;base64,YXVkaW8="}); err == nil {
		t.Fatalf("expected error when AI call fails")
	}
}

func TestAssistantHearingPromptIncludesRecentMemory(t *testing.T) {
	svc := NewAudioService(&stubAI{}, nil)
	req := dto.AudioRequest{EnvironmentMemory: []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"}}
	prompt := svc.assistantHearingPrompt(req)
	for _, want := range []string{"- m3\n", "- m7\n"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected %q in prompt:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "- m2\n") {
		t.Fatalf("older observations should be trimmed to the last five:\n%s", prompt)
	}
}
