package http

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmailLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newEmailLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("ada@example.com"))
	assert.True(t, l.Allow("ADA@example.com "))
	assert.False(t, l.Allow("ada@example.com"))
	assert.True(t, l.Allow("bob@example.com"))

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("ada@example.com"), "one token refilled")
}

func TestEmailLimiterReclaimsIdleEntries(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newEmailLimiter(10)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.Allow(fmt.Sprintf("user%d@example.com", i))
	}
	assert.Equal(t, 100, l.size())

	now = now.Add(30 * time.Second)
	l.Allow("active@example.com")
	assert.Equal(t, 101, l.size(), "entries still refilling are kept")

	now = now.Add(time.Minute)
	l.Allow("late@example.com")
	assert.Equal(t, 1, l.size())
}
