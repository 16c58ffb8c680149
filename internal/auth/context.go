package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"

	// SessionCookie carries the session id for browser clients.
	SessionCookie = "plan_session"
	// SessionHeader carries the session id for API clients.
	SessionHeader = "X-Session-Id"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context.
// This is set by the workspace middleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// SessionID returns the session id from the request header, falling back
// to the session cookie.
func SessionID(c *gin.Context) string {
	if sid := strings.TrimSpace(c.GetHeader(SessionHeader)); sid != "" {
		return sid
	}
	sid, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(sid)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
