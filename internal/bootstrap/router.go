package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/GoSim-25-26J-441/planflow-backend/internal/api/http"
	apimw "github.com/GoSim-25-26J-441/planflow-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth"
	authhttp "github.com/GoSim-25-26J-441/planflow-backend/internal/auth/http"
	authmw "github.com/GoSim-25-26J-441/planflow-backend/internal/auth/middleware"
	projecthttp "github.com/GoSim-25-26J-441/planflow-backend/internal/projects/http"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      *zap.Logger
	Manager     *service.Manager
	// Verifier enables bearer-token callers. May be nil.
	Verifier    auth.TokenVerifier
	DB          httpapi.Pinger
	Redis       httpapi.Pinger
	CORSOrigins []string
	Auth        authhttp.Options
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", auth.SessionHeader, "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	requireWorkspace := authmw.RequireWorkspace(dep.Manager, dep.Verifier, dep.Logger)

	authHandler := authhttp.New(dep.Manager, dep.Auth, dep.Logger)
	authHandler.Register(api.Group("/auth"), requireWorkspace)

	projectsGroup := api.Group("/projects")
	projectsGroup.Use(requireWorkspace)
	projecthttp.New(dep.Logger).Register(projectsGroup)

	return r
}
