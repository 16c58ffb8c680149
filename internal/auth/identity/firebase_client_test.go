package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": msg},
	})
}

func newFakeIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		switch {
		case strings.HasSuffix(r.URL.Path, "/verifyPassword"):
			if body["password"] != "pw" {
				apiError(w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"localId":      "uid-1",
				"email":        body["email"],
				"displayName":  "Ada",
				"idToken":      "id-token",
				"refreshToken": "refresh-token",
			})
		case strings.HasSuffix(r.URL.Path, "/signupNewUser"):
			if body["email"] == "taken@example.com" {
				apiError(w, http.StatusBadRequest, "EMAIL_EXISTS")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"localId":     "uid-2",
				"email":       body["email"],
				"displayName": body["displayName"],
				"idToken":     "id-token-2",
			})
		case strings.HasSuffix(r.URL.Path, "/getOobConfirmationCode"):
			if body["requestType"] != "PASSWORD_RESET" {
				apiError(w, http.StatusBadRequest, "INVALID_REQ_TYPE")
				return
			}
			if body["email"] == "down@example.com" {
				apiError(w, http.StatusForbidden, "API key not valid")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"email": body["email"]})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestFirebaseClient(t *testing.T) *FirebaseClient {
	t.Helper()
	srv := newFakeIdentityServer(t)
	t.Cleanup(srv.Close)

	c, err := NewFirebaseClient(context.Background(), "test-key", srv.URL+"/")
	require.NoError(t, err)
	return c
}

func TestFirebaseClient_SignIn(t *testing.T) {
	c := newTestFirebaseClient(t)
	ctx := context.Background()

	creds, err := c.SignIn(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", creds.Identity.ID)
	assert.Equal(t, "ada@example.com", creds.Identity.Email)
	assert.Equal(t, "Ada", creds.Identity.DisplayName)
	assert.Equal(t, "id-token", creds.IDToken)
	assert.Equal(t, "refresh-token", creds.RefreshToken)

	_, err = c.SignIn(ctx, "ada@example.com", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", err.Error())
}

func TestFirebaseClient_SignUp(t *testing.T) {
	c := newTestFirebaseClient(t)
	ctx := context.Background()

	creds, err := c.SignUp(ctx, "new@example.com", "pw", "Nadia")
	require.NoError(t, err)
	assert.Equal(t, "uid-2", creds.Identity.ID)
	assert.Equal(t, "Nadia", creds.Identity.DisplayName)

	_, err = c.SignUp(ctx, "taken@example.com", "pw", "T")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFirebaseClient_SendPasswordReset(t *testing.T) {
	c := newTestFirebaseClient(t)
	ctx := context.Background()

	assert.NoError(t, c.SendPasswordReset(ctx, "ada@example.com"))

	err := c.SendPasswordReset(ctx, "down@example.com")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestNewFirebaseClient_RequiresKey(t *testing.T) {
	_, err := NewFirebaseClient(context.Background(), "", "")
	assert.Error(t, err)
}
