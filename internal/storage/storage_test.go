package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "profile.v1", `{"name":"Ada"}`))
	v, err := s.Get(ctx, "profile.v1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ada"}`, v)

	require.NoError(t, s.Delete(ctx, "profile.v1"))
	_, err = s.Get(ctx, "profile.v1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, "", "", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)

	_, err = Open(ctx, "floppy", "", "")
	assert.Error(t, err)

	_, err = Open(ctx, "postgres", "", "")
	assert.Error(t, err)

	_, err = Open(ctx, "redis", "", "")
	assert.Error(t, err)
}
