package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/alextreichler/storefront/internal/models"
)

// ErrUsernameTaken is returned by CreateUser for a duplicate username.
var ErrUsernameTaken = errors.New("username already taken")

// GetUserByUsername returns nil, nil when no such user exists.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// ListUsers returns every user, password hashes included.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.Load(ctx)
}

// CreateUser stores a user with the next free id. hashedPassword must already be a bcrypt hash.
func (s *Store) CreateUser(ctx context.Context, username, hashedPassword, role string) (models.User, error) {
	user := models.User{Username: username, Password: hashedPassword, Role: role}
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, bool, error) {
		highest := 0
		for _, u := range users {
			if u.Username == username {
				return nil, false, ErrUsernameTaken
			}
			highest = max(highest, u.ID)
		}
		id, err := s.seq.Next(ctx, UsersDoc, highest)
		if err != nil {
			return nil, false, err
		}
		user.ID = id
		return append(users, user), true, nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}
