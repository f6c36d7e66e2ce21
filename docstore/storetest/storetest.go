// Package storetest provides a conformance suite that all docstore.Store
// implementations should pass. Backend packages call Run from their own
// tests with a factory for a fresh, empty store.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxline/ordergate/docstore"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) docstore.Store

// Run executes the conformance suite against the given factory.
func Run(t *testing.T, factory Factory) {
	t.Run("GetMissing", func(t *testing.T) {
		s := factory(t)
		_, err := s.Get(context.Background(), "orders", "nope")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		doc := map[string]interface{}{
			"createdByUid": "u1",
			"status":       "Locate",
		}
		require.NoError(t, s.Create(ctx, "orders", "o1", doc))

		got, err := s.Get(ctx, "orders", "o1")
		require.NoError(t, err)
		assert.Equal(t, "u1", got["createdByUid"])
		assert.Equal(t, "Locate", got["status"])
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, "orders", "o1", map[string]interface{}{"status": "Locate"}))
		err := s.Create(ctx, "orders", "o1", map[string]interface{}{"status": "Received"})
		assert.ErrorIs(t, err, docstore.ErrAlreadyExists)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, "orders", "o1", map[string]interface{}{
			"status": "Locate",
			"notes":  "initial",
		}))
		require.NoError(t, s.Set(ctx, "orders", "o1", map[string]interface{}{
			"status": "Received",
		}))

		got, err := s.Get(ctx, "orders", "o1")
		require.NoError(t, err)
		assert.Equal(t, "Received", got["status"])

		// Set is a full overwrite, not a merge.
		_, hasNotes := got["notes"]
		assert.False(t, hasNotes)
	})

	t.Run("SetMissing", func(t *testing.T) {
		s := factory(t)
		err := s.Set(context.Background(), "orders", "nope", map[string]interface{}{"status": "Locate"})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, "orders", "o1", map[string]interface{}{"status": "Locate"}))
		require.NoError(t, s.Delete(ctx, "orders", "o1"))

		_, err := s.Get(ctx, "orders", "o1")
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		assert.ErrorIs(t, s.Delete(ctx, "orders", "o1"), docstore.ErrNotFound)
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, "orders", "x", map[string]interface{}{"status": "Locate"}))
		_, err := s.Get(ctx, "users", "x")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("ListOrderedByID", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, "orders", "b", map[string]interface{}{"createdByUid": "u1"}))
		require.NoError(t, s.Create(ctx, "orders", "a", map[string]interface{}{"createdByUid": "u2"}))
		require.NoError(t, s.Create(ctx, "orders", "c", map[string]interface{}{"createdByUid": "u1"}))

		snaps, err := s.List(ctx, "orders", nil)
		require.NoError(t, err)
		require.Len(t, snaps, 3)
		assert.Equal(t, "a", snaps[0].ID)
		assert.Equal(t, "b", snaps[1].ID)
		assert.Equal(t, "c", snaps[2].ID)
	})

	t.Run("ListFiltered", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		require.NoError(t, s.Create(ctx, "orders", "o1", map[string]interface{}{"createdByUid": "u1"}))
		require.NoError(t, s.Create(ctx, "orders", "o2", map[string]interface{}{"createdByUid": "u2"}))

		snaps, err := s.List(ctx, "orders", map[string]interface{}{"createdByUid": "u1"})
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "o1", snaps[0].ID)
	})

	t.Run("ListEmptyCollection", func(t *testing.T) {
		s := factory(t)
		snaps, err := s.List(context.Background(), "orders", nil)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})
}
