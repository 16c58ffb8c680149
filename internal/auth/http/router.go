package http

import "github.com/gin-gonic/gin"

// Register attaches auth routes. requireWorkspace guards the routes that
// need a signed-in caller.
func (h *Handler) Register(rg *gin.RouterGroup, requireWorkspace gin.HandlerFunc) {
	rg.POST("/sign-in", h.SignIn)
	rg.POST("/sign-up", h.SignUp)
	rg.POST("/sign-out", h.SignOut)
	rg.POST("/reset-password", h.ResetPassword)
	rg.GET("/me", requireWorkspace, h.Me)
}
