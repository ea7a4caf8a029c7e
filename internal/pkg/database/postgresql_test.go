package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolSettings_WithDefaults(t *testing.T) {
	t.Parallel()

	got := PoolSettings{}.withDefaults()

	assert.Equal(t, int32(25), got.MaxConns)
	assert.Equal(t, int32(5), got.MinConns)
	assert.Equal(t, 5*time.Second, got.PingTimeout)
}

func TestPoolSettings_WithDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	got := PoolSettings{MaxConns: 40, MinConns: 10, PingTimeout: 2 * time.Second}.withDefaults()

	assert.Equal(t, int32(40), got.MaxConns)
	assert.Equal(t, int32(10), got.MinConns)
	assert.Equal(t, 2*time.Second, got.PingTimeout)
}
