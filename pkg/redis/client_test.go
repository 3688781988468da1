package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	server := miniredis.RunT(t)
	t.Cleanup(func() { _ = Close() })

	c, err := Initialize(context.Background(), Config{URL: "redis://" + server.Addr()})
	require.NoError(t, err)

	require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
	got, err := server.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestClose(t *testing.T) {
	server := miniredis.RunT(t)

	c, err := Initialize(context.Background(), Config{URL: "redis://" + server.Addr()})
	require.NoError(t, err)

	require.NoError(t, Close())
	assert.Error(t, c.Ping(context.Background()).Err(), "client is closed")
	assert.NoError(t, Close(), "second close is a no-op")
}

func TestInitialize_Errors(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	_, err := Initialize(context.Background(), Config{})
	assert.ErrorContains(t, err, "not configured")

	_, err = Initialize(context.Background(), Config{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "invalid URL")

	server := miniredis.RunT(t)
	server.RequireAuth("hunter2")
	_, err = Initialize(context.Background(), Config{URL: "redis://" + server.Addr(), Password: "wrong"})
	assert.ErrorContains(t, err, "connection failed")
}

func TestInitialize_PasswordOverride(t *testing.T) {
	server := miniredis.RunT(t)
	server.RequireAuth("hunter2")
	t.Cleanup(func() { _ = Close() })

	_, err := Initialize(context.Background(), Config{URL: "redis://" + server.Addr(), Password: "hunter2"})
	assert.NoError(t, err)
}
