package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GoSim-25-26J-441/planflow-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/service"
)

const ctxWorkspace = "workspace"

// RequireWorkspace resolves the caller's workspace from the session id, or
// from a Firebase ID token when verifier is set. Requests with neither are
// rejected with 401.
func RequireWorkspace(manager *service.Manager, verifier auth.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sessionErr error
		if sid := auth.SessionID(c); sid != "" {
			ws, err := manager.Lookup(ctx, sid)
			if err == nil {
				attach(c, ws)
				c.Next()
				return
			}
			if apperrors.KindOf(err) != apperrors.KindNotAuthenticated {
				logger.Warn("Failed to restore session", zap.Error(err))
				apihttp.AbortWithError(c, err)
				return
			}
			sessionErr = err
		}

		if token := auth.BearerToken(c); token != "" && verifier != nil {
			decoded, err := verifier.VerifyIDToken(ctx, token)
			if err != nil {
				apihttp.AbortWithError(c, apperrors.New(apperrors.KindNotAuthenticated, "invalid token"))
				return
			}
			attach(c, manager.ForBearer(ctx, auth.IdentityFromToken(decoded)))
			c.Next()
			return
		}

		if sessionErr == nil {
			sessionErr = apperrors.ErrNotAuthenticated
		}
		apihttp.AbortWithError(c, sessionErr)
	}
}

// Workspace returns the workspace set by RequireWorkspace.
func Workspace(c *gin.Context) *service.Workspace {
	v, ok := c.Get(ctxWorkspace)
	if !ok {
		return nil
	}
	ws, _ := v.(*service.Workspace)
	return ws
}

func attach(c *gin.Context, ws *service.Workspace) {
	c.Set(ctxWorkspace, ws)
	if id, ok := ws.Identity.Current(); ok {
		c.Set(auth.CtxFirebaseUID, id.ID)
		c.Set(auth.CtxEmail, id.Email)
	}
}
