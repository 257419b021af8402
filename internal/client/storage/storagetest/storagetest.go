// Package storagetest holds the behaviour every storage.Backend must share.
// Backend packages call Run from their tests.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/desabantuin/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises b, which must start empty.
func Run(t *testing.T, newBackend func(t *testing.T) storage.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent returns nil nil", func(t *testing.T) {
		b := newBackend(t)
		v, err := b.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Set(ctx, "auth_token", []byte("tok123")))

		v, err := b.Get(ctx, "auth_token")
		require.NoError(t, err)
		assert.Equal(t, []byte("tok123"), v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Set(ctx, "k", []byte("old")))
		require.NoError(t, b.Set(ctx, "k", []byte("new")))

		v, err := b.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Set(ctx, "k", []byte("v")))
		require.NoError(t, b.Delete(ctx, "k"))

		v, err := b.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, b.Delete(ctx, "k"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Set(ctx, "a", []byte("1")))
		require.NoError(t, b.Set(ctx, "b", []byte("2")))
		require.NoError(t, b.Delete(ctx, "a"))

		v, err := b.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), v)
	})

	t.Run("update commits all writes", func(t *testing.T) {
		b := newBackend(t)
		u, ok := b.(storage.Updater)
		if !ok {
			t.Skip("backend does not implement storage.Updater")
		}
		require.NoError(t, b.Set(ctx, "gone", []byte("x")))

		err := u.Update(ctx, func(ctx context.Context, tx storage.Backend) error {
			if err := tx.Set(ctx, "a", []byte("1")); err != nil {
				return err
			}
			if err := tx.Set(ctx, "b", []byte("2")); err != nil {
				return err
			}
			return tx.Delete(ctx, "gone")
		})
		require.NoError(t, err)

		assertValue(t, b, "a", []byte("1"))
		assertValue(t, b, "b", []byte("2"))
		assertValue(t, b, "gone", nil)
	})

	t.Run("update rolls back on error", func(t *testing.T) {
		b := newBackend(t)
		u, ok := b.(storage.Updater)
		if !ok {
			t.Skip("backend does not implement storage.Updater")
		}
		require.NoError(t, b.Set(ctx, "a", []byte("before")))
		boom := errors.New("boom")

		err := u.Update(ctx, func(ctx context.Context, tx storage.Backend) error {
			if err := tx.Set(ctx, "a", []byte("after")); err != nil {
				return err
			}
			if err := tx.Set(ctx, "b", []byte("new")); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		assertValue(t, b, "a", []byte("before"))
		assertValue(t, b, "b", nil)
	})
}

func assertValue(t *testing.T, b storage.Backend, key string, want []byte) {
	t.Helper()
	v, err := b.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, want, v, "key %q", key)
}
