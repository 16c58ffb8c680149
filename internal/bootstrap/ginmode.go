package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode maps APP_ENV onto gin's mode and returns the mode applied.
// Anything other than production or test runs in debug mode.
func SetGinMode(env string) string {
	mode := gin.DebugMode
	switch env {
	case "production":
		mode = gin.ReleaseMode
	case "test":
		mode = gin.TestMode
	}
	gin.SetMode(mode)
	return mode
}
