package persona

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProfile(t *testing.T, dir, name string, p Persona) {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
}

func TestLoadMissingProfile(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	if _, ok := lib.Load("nope"); ok {
		t.Fatalf("expected missing profile to report absent")
	}
}

func TestSustainabilityPromptFromFile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, SustainabilityName, Persona{
		Name:           "Rile",
		PromptTemplate: "You are Rile, helping {username} with sustainability.",
	})
	lib := NewLibrary(dir)

	got := lib.SustainabilityPrompt("alice")
	if got != "You are Rile, helping alice with sustainability." {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestSustainabilityPromptFallback(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	got := lib.SustainabilityPrompt("alice")
	if got == "" {
		t.Fatalf("fallback prompt should not be empty")
	}
	if strings.Contains(got, "{username}") {
		t.Fatalf("fallback prompt left placeholder unfilled:\n%s", got)
	}
	if !strings.Contains(got, "alice") {
		t.Fatalf("fallback prompt should address the user:\n%s", got)
	}
}

func TestAssistantPromptAssemblesProfiles(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, SustainabilityName, Persona{Name: "Rile", PromptTemplate: "sustainability only"})
	writeProfile(t, dir, "chef", Persona{
		Name:               "Chef",
		Emoji:              "👨‍🍳",
		Greeting:           "What are we cooking, {username}?",
		PromptTemplate:     "You are a cooking expert.",
		IntroductionPhrase: "Chef here!",
		Specialties:        []string{"cooking"},
	})
	writeProfile(t, dir, "mechanic", Persona{
		Name:           "Mechanic",
		Greeting:       "Engine trouble?",
		PromptTemplate: "You are a car expert.",
	})
	lib := NewLibrary(dir)

	got := lib.AssistantPrompt("alice")
	if !strings.Contains(got, "CHEF: You are a cooking expert.") {
		t.Fatalf("missing chef profile:\n%s", got)
	}
	if !strings.Contains(got, "MECHANIC: You are a car expert.") {
		t.Fatalf("missing mechanic profile:\n%s", got)
	}
	if strings.Contains(got, "sustainability only") {
		t.Fatalf("sustainability profile leaked into assistant prompt:\n%s", got)
	}
	if strings.Contains(got, "{username}") || !strings.Contains(got, "alice") {
		t.Fatalf("username not substituted:\n%s", got)
	}
}

func TestAssistantPromptFallback(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	got := lib.AssistantPrompt("alice")
	if got == "" || strings.Contains(got, "{username}") {
		t.Fatalf("unexpected fallback assistant prompt:\n%s", got)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "a", Persona{Name: "A"})
	writeProfile(t, dir, "b", Persona{Name: "B"})
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write broken profile: %v", err)
	}

	lib := NewLibrary(dir)
	all := lib.LoadAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 loadable profiles, got %d", len(all))
	}
	if _, ok := all["broken"]; ok {
		t.Fatalf("broken profile should be skipped")
	}
}
