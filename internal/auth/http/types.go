package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/service"
)

type Handler struct {
	manager      *service.Manager
	limiter      *emailLimiter
	logger       *zap.Logger
	cookieTTL    time.Duration
	secureCookie bool
}

type Options struct {
	SignInRatePerMin int
	SessionTTL       time.Duration
	SecureCookie     bool
}

func New(manager *service.Manager, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		manager:      manager,
		limiter:      newEmailLimiter(opts.SignInRatePerMin),
		logger:       logger,
		cookieTTL:    opts.SessionTTL,
		secureCookie: opts.SecureCookie,
	}
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type resetReq struct {
	Email string `json:"email"`
}
