package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"key value", "host=db port=5432 user=app password=secret dbname=planflow", "host=db port=5432 user=app password=[REDACTED] dbname=planflow"},
		{"quoted", `host=db password='p w\'d' dbname=x`, "host=db password=[REDACTED] dbname=x"},
		{"url", "postgres://app:secret@db:5432/planflow?sslmode=disable", "postgres://app:[REDACTED]@db:5432/planflow?sslmode=disable"},
		{"no secret", "redis://localhost:6379/0", "redis://localhost:6379/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeDSN(tt.in))
		})
	}
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, SanitizeError(nil))

	err := errors.New(`Post "https://identitytoolkit.googleapis.com/v3/relyingparty/verifyPassword?alt=json&key=AIzaSyExample_123": dial tcp: i/o timeout`)
	assert.Equal(t,
		`Post "https://identitytoolkit.googleapis.com/v3/relyingparty/verifyPassword?alt=json&key=[REDACTED]": dial tcp: i/o timeout`,
		SanitizeError(err))

	err = errors.New("verify failed for Bearer eyJhbGci.eyJzdWIi.sig")
	assert.Equal(t, "verify failed for Bearer [REDACTED]", SanitizeError(err))
}
