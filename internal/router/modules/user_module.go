package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/innomart/innomart-server/internal/container"
	handlers "github.com/innomart/innomart-server/internal/interface/http"
	"github.com/innomart/innomart-server/internal/interface/middleware"
	"github.com/innomart/innomart-server/pkg/helpers"
)

// UserModule wires account routes.
// Public: POST /api/signup, POST /api/login
// Protected: GET /api/user, PUT /api/settings/profile,
// PUT /api/settings/change-password

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/user", m.Handler.GetUser)
		auth.PUT("/settings/profile", m.Handler.UpdateProfile)
		auth.PUT("/settings/change-password", m.Handler.ChangePassword)
	}
}
