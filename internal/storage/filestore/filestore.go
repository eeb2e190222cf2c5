package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/password"
)

const (
	usersFile   = "users.json"
	devicesFile = "devices.json"
)

// Store persists conversations, users and devices as JSON documents under a
// conventional directory layout: one file per (mode, username) conversation,
// plus users.json and devices.json. It is the backend selected when no
// database connection string is configured.
type Store struct {
	dir string
	pw  *password.Service

	// One writer at a time; every mutation is a read-modify-write of a
	// whole document.
	mu sync.Mutex
}

func Open(dir string, pw *password.Service) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create %s: %w", dir, err)
	}
	return &Store{dir: dir, pw: pw}, nil
}

func (s *Store) Close() error { return nil }

// modeDir maps a mode to its storage subdirectory.
func modeDir(mode domain.Mode) string {
	if mode == domain.ModeAssistant {
		return "personal_assistant"
	}
	return "sustainability"
}

func (s *Store) conversationPath(username string, mode domain.Mode) string {
	return filepath.Join(s.dir, modeDir(mode), username+".json")
}

// legacyPath is the pre-mode flat layout, kept readable for backward
// compatibility.
func (s *Store) legacyPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
