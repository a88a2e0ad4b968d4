package users

import (
	"context"
	"fmt"

	"github.com/willemschots/signups/internal/krypto"
)

// Store persists users.
type Store interface {
	InsertUser(ctx context.Context, email, password string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// HashFunc hashes a plaintext password into the credential that is stored.
type HashFunc func(Password) (string, error)

// Service handles signups and the listing of users.
type Service struct {
	store Store

	// HashFunc is used to hash passwords before they are stored.
	// Exposed for testing purposes.
	HashFunc HashFunc
}

func NewService(s Store) *Service {
	return &Service{
		store:    s,
		HashFunc: HashArgon2,
	}
}

// Subscribe stores a new user with a hash of the provided password.
func (s *Service) Subscribe(ctx context.Context, c Credentials) (User, error) {
	hash, err := s.HashFunc(c.Password)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.store.InsertUser(ctx, c.Email, hash)
	if err != nil {
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// List returns all stored users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	list, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return list, nil
}

// HashArgon2 hashes the password using the argon2id algorithm.
func HashArgon2(p Password) (string, error) {
	h, err := krypto.HashArgon2([]byte(p))
	if err != nil {
		return "", err
	}
	return h.String(), nil
}
