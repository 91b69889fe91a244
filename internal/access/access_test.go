package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"", Guest, false},
		{"guest", Guest, false},
		{"customer", Customer, false},
		{"admin", Admin, false},
		{"root", Guest, true},
		{"Admin", Guest, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Role {
	t.Helper()
	r, err := ParseRole(s)
	require.NoError(t, err)
	return r
}

func TestCheck(t *testing.T) {
	guest := Anonymous
	alice := Identity{Username: "alice", Role: Customer}
	boss := Identity{Username: "boss", Role: Admin}

	t.Run("guest may contact but not shop", func(t *testing.T) {
		assert.NoError(t, Check(guest, SubmitContact))
		assert.NoError(t, Check(guest, BrowseCatalog))
		assert.True(t, errors.Is(Check(guest, ManageCart), ErrUnauthenticated))
		assert.True(t, errors.Is(Check(guest, ManageAllOrders), ErrUnauthenticated))
	})

	t.Run("customer manages own things only", func(t *testing.T) {
		for _, c := range []Capability{ManageCart, PlaceOrder, ViewOwnOrders, ManageOwnDialogs} {
			assert.NoError(t, Check(alice, c), c.String())
		}
		for _, c := range []Capability{ManageAllOrders, ManageAllDialogs, ViewCounters} {
			assert.True(t, errors.Is(Check(alice, c), ErrForbidden), c.String())
		}
	})

	t.Run("admin has no cart", func(t *testing.T) {
		for _, c := range []Capability{ManageAllOrders, ManageAllDialogs, ViewCounters} {
			assert.NoError(t, Check(boss, c), c.String())
		}
		assert.True(t, errors.Is(Check(boss, ManageCart), ErrForbidden))
		assert.True(t, errors.Is(Check(boss, PlaceOrder), ErrForbidden))
	})

	t.Run("role without username is anonymous", func(t *testing.T) {
		ghost := Identity{Role: Admin}
		assert.False(t, ghost.Authenticated())
		assert.True(t, errors.Is(Check(ghost, ManageAllOrders), ErrUnauthenticated))
	})
}

func TestContextRoundTrip(t *testing.T) {
	assert.Equal(t, Anonymous, FromContext(context.Background()))

	id := Identity{Username: "alice", Role: Customer}
	ctx := WithIdentity(context.Background(), id)
	assert.Equal(t, id, FromContext(ctx))
}
