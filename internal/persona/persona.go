// Package persona loads the prompt profiles that shape the two conversation
// modes. Profiles are JSON files on disk with hardcoded fallbacks, so a
// missing or broken personas directory never breaks a turn.
package persona

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SustainabilityName is the profile backing the sustainability mode; every
// other profile participates in the multi-persona assistant mode.
const SustainabilityName = "sustainability_rile"

type Persona struct {
	Name               string   `json:"persona_name"`
	Emoji              string   `json:"emoji"`
	Greeting           string   `json:"greeting"`
	PromptTemplate     string   `json:"prompt_template"`
	IntroductionPhrase string   `json:"introduction_phrase"`
	Specialties        []string `json:"specialties"`
}

// Library reads persona files from one directory. Reads happen per request;
// profile edits take effect without a restart.
type Library struct {
	dir string
}

func NewLibrary(dir string) *Library { return &Library{dir: dir} }

// Load reads one profile by file name (without extension).
func (l *Library) Load(name string) (*Persona, bool) {
	path := filepath.Join(l.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("persona: read profile", "path", path, "error", err)
		}
		return nil, false
	}
	var p Persona
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Error("persona: parse profile", "path", path, "error", err)
		return nil, false
	}
	return &p, true
}

// LoadAll reads every profile in the directory, keyed by file name.
func (l *Library) LoadAll() map[string]*Persona {
	personas := map[string]*Persona{}
	entries, err := filepath.Glob(filepath.Join(l.dir, "*.json"))
	if err != nil {
		slog.Error("persona: list profiles", "dir", l.dir, "error", err)
		return personas
	}
	for _, path := range entries {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		if p, ok := l.Load(name); ok {
			personas[name] = p
		}
	}
	return personas
}

// fill substitutes the user's name into a template.
func fill(template, username string) string {
	return strings.ReplaceAll(template, "{username}", username)
}

// SustainabilityPrompt builds the sustainability-mode system prompt from the
// profile file, falling back to the built-in text.
func (l *Library) SustainabilityPrompt(username string) string {
	if p, ok := l.Load(SustainabilityName); ok && p.PromptTemplate != "" {
		return fill(p.PromptTemplate, username)
	}
	return fill(fallbackSustainabilityPrompt, username)
}

// AssistantPrompt assembles the multi-persona assistant-mode system prompt
// from every non-sustainability profile, falling back to the built-in text
// when none load.
func (l *Library) AssistantPrompt(username string) string {
	personas := l.LoadAll()
	delete(personas, SustainabilityName)
	if len(personas) == 0 {
		return fill(fallbackAssistantPrompt, username)
	}

	keys := make([]string, 0, len(personas))
	for k := range personas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var intro, descriptions, examples []string
	for _, k := range keys {
		p := personas[k]
		emoji := p.Emoji
		if emoji == "" {
			emoji = "🤖"
		}
		intro = append(intro, emoji+" "+p.Name+": \""+p.Greeting+"\"")
		descriptions = append(descriptions, strings.ToUpper(p.Name)+": "+p.PromptTemplate)
		if p.IntroductionPhrase != "" && len(examples) < 3 {
			specialty := ""
			if len(p.Specialties) > 0 {
				specialty = p.Specialties[0]
			}
			examples = append(examples, specialty+" query: '"+p.IntroductionPhrase+"'")
		}
	}

	prompt := strings.NewReplacer(
		"{intro}", strings.Join(intro, "\n"),
		"{personas}", strings.Join(descriptions, "\n"),
		"{examples}", strings.Join(examples, "\n"),
	).Replace(assistantPromptFrame)
	return fill(prompt, username)
}
