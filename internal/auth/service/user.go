package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pantrylabs/pantry/internal/auth/domain"
	"github.com/pantrylabs/pantry/internal/auth/store"
	"github.com/pantrylabs/pantry/pkg/cryptox"
	"github.com/pantrylabs/pantry/pkg/idx"
)

var (
	ErrUsernameTaken   = errors.New("username_taken")
	ErrInvalidUsername = errors.New("invalid_username")
	ErrWeakPassword    = errors.New("weak_password")
)

const minPasswordLength = 8

// UserService handles account registration.
type UserService struct {
	Store store.Store
}

// Signup registers a new account with the default "user" role and returns the
// stored principal.
func (s *UserService) Signup(
	ctx context.Context,
	username, displayName, password string,
) (domain.Principal, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)

	if username == "" || strings.ContainsAny(username, " \t\n") {
		return domain.Principal{}, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return domain.Principal{}, ErrWeakPassword
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Principal{}, err
	}

	p := domain.Principal{
		ID:           idx.New().String(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         "user",
	}

	if err := s.Store.Users().CreateUser(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Principal{}, ErrUsernameTaken
		}
		return domain.Principal{}, err
	}

	return p, nil
}

// GetProfile returns the stored principal for a subject.
func (s *UserService) GetProfile(ctx context.Context, subjectID string) (domain.Principal, error) {
	return s.Store.Users().GetUserByID(ctx, subjectID)
}
