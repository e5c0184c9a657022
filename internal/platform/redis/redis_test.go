package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)
	client, err := Connect(context.Background(), server.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	server.CheckGet(t, "k", "v")
}

func TestConnect_EmptyAddress(t *testing.T) {
	_, err := Connect(context.Background(), " ", "", 0)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, cleanup := Open(context.Background(), "", "", 0, logger)
	assert.Nil(t, client)
	cleanup()

	client, cleanup = Open(context.Background(), "127.0.0.1:1", "", 0, logger)
	assert.Nil(t, client)
	cleanup()

	server := miniredis.RunT(t)
	client, cleanup = Open(context.Background(), server.Addr(), "", 0, logger)
	require.NotNil(t, client)
	defer cleanup()
	assert.NoError(t, client.Ping(context.Background()).Err())
}
