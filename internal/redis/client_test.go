package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("rejects malformed url", func(t *testing.T) {
		_, err := NewClient(context.Background(), "not a url")
		assert.ErrorContains(t, err, "parse redis url")
	})

	t.Run("fails when server unreachable", func(t *testing.T) {
		_, err := NewClient(context.Background(), "redis://127.0.0.1:1/0?dial_timeout=100ms&max_retries=-1")
		assert.ErrorContains(t, err, "ping redis")
	})
}
