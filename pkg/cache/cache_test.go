package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutRedisEverythingIsANoop(t *testing.T) {
	RDB = nil
	ctx := context.Background()

	var out []string
	assert.False(t, Get(ctx, "k", &out))
	assert.NoError(t, Set(ctx, "k", []string{"a"}, 0))
	assert.NoError(t, Del(ctx, "k"))
	assert.NoError(t, ForgetPrefix(ctx, "catalog:"))
	assert.NoError(t, Close())
}

func TestRememberLoadsOnMiss(t *testing.T) {
	RDB = nil
	ctx := context.Background()

	calls := 0
	var out []string
	for i := 0; i < 2; i++ {
		require.NoError(t, Remember(ctx, "k", 0, &out, func() error {
			calls++
			out = []string{"a", "b"}
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"a", "b"}, out)

	boom := errors.New("boom")
	assert.ErrorIs(t, Remember(ctx, "k", 0, &out, func() error { return boom }), boom)
}
