package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, fmt.Sprintf("redis://%s/2", s.Addr()))
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 2, client.Options().DB)

	require.NoError(t, client.Set(ctx, "washledger:ping", "1", time.Minute).Err())
	s.Select(2)
	assert.True(t, s.Exists("washledger:ping"))
}

func TestNewClientErrors(t *testing.T) {
	down := miniredis.RunT(t)
	downURL := fmt.Sprintf("redis://%s", down.Addr())
	down.Close()

	tests := []struct {
		name string
		url  string
	}{
		{name: "unparseable url", url: "://bad-url"},
		{name: "wrong scheme", url: "http://localhost:6379"},
		{name: "server down", url: downURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.url)
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}
