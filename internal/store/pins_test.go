package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinMembership(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("adding creates the pin implicitly", func(t *testing.T) {
		added, skipped, err := s.AddPinMembers(ctx, "com.example.alpha", "PIN-1", []int64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 2, added)
		assert.Zero(t, skipped)
	})

	t.Run("re-adding is idempotent", func(t *testing.T) {
		added, skipped, err := s.AddPinMembers(ctx, "com.example.alpha", "PIN-1", []int64{2, 3})
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, 1, skipped)
	})

	t.Run("members are listed", func(t *testing.T) {
		members, err := s.PinMembers(ctx, "com.example.alpha", "PIN-1")
		require.NoError(t, err)
		assert.Len(t, members, 3)
	})

	t.Run("summary reflects the count", func(t *testing.T) {
		summary, err := s.GetPin(ctx, "com.example.alpha", "PIN-1")
		require.NoError(t, err)
		assert.Equal(t, "PIN-1", summary.Pin)
		assert.Equal(t, int64(3), summary.UserCount)
	})

	t.Run("remove members", func(t *testing.T) {
		removed, err := s.RemovePinMembers(ctx, "com.example.alpha", "PIN-1", []int64{1, 99})
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("unknown pin has no members", func(t *testing.T) {
		_, err := s.PinMembers(ctx, "com.example.alpha", "PIN-404")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("pin invisible from another bundle", func(t *testing.T) {
		_, err := s.GetPin(ctx, "com.example.beta", "PIN-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeletePin(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.AddPinMembers(ctx, "com.example.alpha", "PIN-1", []int64{1, 2})
	require.NoError(t, err)

	removed, err := s.DeletePin(ctx, "com.example.alpha", "PIN-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	t.Run("pin ceases to exist", func(t *testing.T) {
		_, err := s.GetPin(ctx, "com.example.alpha", "PIN-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleting again", func(t *testing.T) {
		_, err := s.DeletePin(ctx, "com.example.alpha", "PIN-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListPins(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.AddPinMembers(ctx, "com.example.alpha", "PIN-A", []int64{1, 2})
	require.NoError(t, err)
	_, _, err = s.AddPinMembers(ctx, "com.example.alpha", "PIN-B", []int64{3})
	require.NoError(t, err)
	_, _, err = s.AddPinMembers(ctx, "com.example.beta", "PIN-A", []int64{9})
	require.NoError(t, err)

	pins, err := s.ListPins(ctx, "com.example.alpha")
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, "PIN-A", pins[0].Pin)
	assert.Equal(t, int64(2), pins[0].UserCount)
	assert.Equal(t, "PIN-B", pins[1].Pin)
	assert.Equal(t, int64(1), pins[1].UserCount)
}
