package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	tests := map[string]string{
		"production":  gin.ReleaseMode,
		"test":        gin.TestMode,
		"development": gin.DebugMode,
		"":            gin.DebugMode,
	}
	for env, want := range tests {
		assert.Equal(t, want, SetGinMode(env), env)
		assert.Equal(t, want, gin.Mode(), env)
	}
}

func TestDBOptionsDefaults(t *testing.T) {
	o := DBOptions{DSN: "postgres://localhost/plans"}.withDefaults()
	assert.EqualValues(t, defaultMaxConns, o.MaxConns)
	assert.Equal(t, defaultConnectTO, o.ConnectTO)
	assert.Equal(t, defaultPingTO, o.PingTO)

	o = DBOptions{MaxConns: 9, PingTO: time.Second}.withDefaults()
	assert.EqualValues(t, 9, o.MaxConns)
	assert.Equal(t, time.Second, o.PingTO)
}

func TestOpenDBRejectsBadURL(t *testing.T) {
	_, err := OpenDB(context.Background(), DBOptions{})
	require.Error(t, err)

	_, err = OpenDB(context.Background(), DBOptions{DSN: "postgres://user@host:notaport/db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}
