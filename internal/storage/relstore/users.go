package relstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"

	"gorm.io/gorm"
)

func (s *Store) RegisterUser(ctx context.Context, username, secret string) domain.AuthResult {
	var existing domain.Credential
	err := s.db.WithContext(ctx).First(&existing, "username = ?", username).Error
	switch {
	case err == nil:
		return domain.AuthResult{Reason: domain.ErrUsernameTaken.Error()}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		slog.Error("relstore: check username", "username", username, "error", err)
		return domain.AuthResult{Reason: "registration failed"}
	}

	hash, salt, params, algo, ver, err := s.pw.Hash(secret)
	if err != nil {
		slog.Error("relstore: hash password", "error", err)
		return domain.AuthResult{Reason: "registration failed"}
	}
	cred := domain.Credential{
		Username:    username,
		Algo:        algo,
		Hash:        hash,
		Salt:        salt,
		ParamsJSON:  params,
		PasswordVer: ver,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&cred).Error; err != nil {
		// A concurrent registration can still hit the unique constraint.
		slog.Error("relstore: create user", "username", username, "error", err)
		return domain.AuthResult{Reason: domain.ErrUsernameTaken.Error()}
	}
	return domain.AuthResult{OK: true, Username: username}
}

func (s *Store) VerifyLogin(ctx context.Context, username, secret string) domain.AuthResult {
	var cred domain.Credential
	if err := s.db.WithContext(ctx).First(&cred, "username = ?", username).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("relstore: load credential", "username", username, "error", err)
		}
		return domain.AuthResult{Reason: domain.ErrInvalidCredentials.Error()}
	}
	if _, ok := s.pw.Verify(secret, &cred); !ok {
		return domain.AuthResult{Reason: domain.ErrInvalidCredentials.Error()}
	}

	if err := s.db.WithContext(ctx).Model(&domain.Credential{}).
		Where("username = ?", username).
		Update("last_login", time.Now().UTC()).Error; err != nil {
		slog.Warn("relstore: update last login", "username", username, "error", err)
	}
	return domain.AuthResult{OK: true, Username: username}
}
