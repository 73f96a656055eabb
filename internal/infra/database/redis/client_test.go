package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDisabled(t *testing.T) {
	client, err := Open(context.Background(), Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestOpenPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := Open(context.Background(), Config{Enabled: true, Addr: addr}, nil)
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = Open(context.Background(), Config{Enabled: true, Addr: addr}, nil)
	assert.Error(t, err)
}

func TestOpenRequiresAddr(t *testing.T) {
	_, err := Open(context.Background(), Config{Enabled: true}, nil)
	assert.Error(t, err)
}
