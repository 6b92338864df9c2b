package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := HashPassword("password123", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, "password123", hash)
		assert.True(t, CompareHashAndPassword(hash, "password123"))
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		hash, err := HashPassword("password123", bcrypt.MinCost)
		require.NoError(t, err)
		assert.False(t, CompareHashAndPassword(hash, "password124"))
	})

	t.Run("fresh salt per call", func(t *testing.T) {
		h1, err := HashPassword("password123", bcrypt.MinCost)
		require.NoError(t, err)
		h2, err := HashPassword("password123", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		hash, err := HashPassword("password123", 99)
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})

	t.Run("garbage hash never verifies", func(t *testing.T) {
		assert.False(t, CompareHashAndPassword("not-a-hash", "password123"))
	})
}
