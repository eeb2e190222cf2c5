package filestore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
)

func (s *Store) loadUsers() (map[string]*domain.Credential, error) {
	users := map[string]*domain.Credential{}
	err := readJSON(filepath.Join(s.dir, usersFile), &users)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return users, nil
}

func (s *Store) saveUsers(users map[string]*domain.Credential) error {
	return writeJSON(filepath.Join(s.dir, usersFile), users)
}

func (s *Store) RegisterUser(ctx context.Context, username, secret string) domain.AuthResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		slog.Error("filestore: load users", "error", err)
		return domain.AuthResult{Reason: "registration failed"}
	}
	if _, exists := users[username]; exists {
		return domain.AuthResult{Reason: domain.ErrUsernameTaken.Error()}
	}

	hash, salt, params, algo, ver, err := s.pw.Hash(secret)
	if err != nil {
		slog.Error("filestore: hash password", "error", err)
		return domain.AuthResult{Reason: "registration failed"}
	}
	users[username] = &domain.Credential{
		Username:    username,
		Algo:        algo,
		Hash:        hash,
		Salt:        salt,
		ParamsJSON:  params,
		PasswordVer: ver,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.saveUsers(users); err != nil {
		slog.Error("filestore: save users", "error", err)
		return domain.AuthResult{Reason: "registration failed"}
	}
	return domain.AuthResult{OK: true, Username: username}
}

func (s *Store) VerifyLogin(ctx context.Context, username, secret string) domain.AuthResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		slog.Error("filestore: load users", "error", err)
		return domain.AuthResult{Reason: domain.ErrInvalidCredentials.Error()}
	}
	cred, exists := users[username]
	if !exists {
		return domain.AuthResult{Reason: domain.ErrInvalidCredentials.Error()}
	}
	if _, ok := s.pw.Verify(secret, cred); !ok {
		return domain.AuthResult{Reason: domain.ErrInvalidCredentials.Error()}
	}

	now := time.Now().UTC()
	cred.LastLogin = &now
	if err := s.saveUsers(users); err != nil {
		// The login itself succeeded; losing the last-login stamp is not
		// worth failing the attempt.
		slog.Warn("filestore: save last login", "error", err)
	}
	return domain.AuthResult{OK: true, Username: username}
}
