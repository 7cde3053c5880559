package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("fails with malformed url", func(t *testing.T) {
		_, err := Connect(context.Background(), "not a url ::")
		require.Error(t, err)
	})

	t.Run("connects to test database", func(t *testing.T) {
		pool := TestPool(t)
		require.NoError(t, pool.Ping(context.Background()))
	})
}
