package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GoSim-25-26J-441/planflow-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/service"
)

func (h *Handler) SignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.WriteError(c, apperrors.Validation("invalid body"))
		return
	}
	if !h.limiter.Allow(req.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many attempts, try again later"})
		return
	}

	ws := h.manager.New()
	if err := ws.Identity.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	h.replaceSession(c)
	h.establish(c, ws, http.StatusOK)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.WriteError(c, apperrors.Validation("invalid body"))
		return
	}
	if !h.limiter.Allow(req.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many attempts, try again later"})
		return
	}

	ws := h.manager.New()
	if err := ws.Identity.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	h.replaceSession(c)
	h.establish(c, ws, http.StatusCreated)
}

// SignOut ends the caller's session. Signing out without a session
// succeeds.
func (h *Handler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()
	h.clearCookie(c)

	sid := auth.SessionID(c)
	if sid == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	ws, err := h.manager.Lookup(ctx, sid)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotAuthenticated {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		apihttp.WriteError(c, err)
		return
	}

	if err := h.manager.SignOut(ctx, ws); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.WriteError(c, apperrors.Validation("invalid body"))
		return
	}
	if !h.limiter.Allow(req.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many attempts, try again later"})
		return
	}

	if err := h.manager.New().Identity.ResetPassword(c.Request.Context(), req.Email); err != nil {
		apihttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Me(c *gin.Context) {
	ws := middleware.Workspace(c)
	id, ok := ws.Identity.Current()
	if !ok {
		apihttp.WriteError(c, apperrors.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": id, "loading": ws.Identity.Loading()})
}

// replaceSession ends the session the request already carries, if any, so
// a second sign-in does not leave the first one live.
func (h *Handler) replaceSession(c *gin.Context) {
	sid := auth.SessionID(c)
	if sid == "" {
		return
	}
	ctx := c.Request.Context()
	old, err := h.manager.Lookup(ctx, sid)
	if err != nil {
		return
	}
	if err := h.manager.SignOut(ctx, old); err != nil {
		h.logger.Warn("Failed to end previous session", zap.Error(err))
	}
}

func (h *Handler) establish(c *gin.Context, ws *service.Workspace, status int) {
	if err := h.manager.Register(ws); err != nil {
		apihttp.WriteError(c, err)
		return
	}

	id, _ := ws.Identity.Current()
	sid := ws.Identity.SessionID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, sid, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)

	h.logger.Debug("Session established", zap.String("user_id", id.ID))
	c.JSON(status, gin.H{"ok": true, "user": id, "session_id": sid})
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", h.secureCookie, true)
}
