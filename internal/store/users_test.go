package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, u)

	alice, err := s.CreateUser(ctx, "alice", "hash-a", "customer")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.ID)

	boss, err := s.CreateUser(ctx, "boss", "hash-b", "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, boss.ID)

	_, err = s.CreateUser(ctx, "alice", "other", "customer")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.GetUserByUsername(ctx, "boss")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "hash-b", got.Password)

	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
