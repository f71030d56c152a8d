package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/innomart/innomart-server/internal/container"
	handlers "github.com/innomart/innomart-server/internal/interface/http"
	"github.com/innomart/innomart-server/internal/interface/middleware"
	"github.com/innomart/innomart-server/pkg/helpers"
)

// LearningModule wires the learning resources routes.

type LearningModule struct {
	Handler *handlers.LearningHandler
	JWT     *helpers.JWTManager
}

func NewLearningModule(h *handlers.LearningHandler, jwt *helpers.JWTManager) *LearningModule {
	return &LearningModule{Handler: h, JWT: jwt}
}

func (m *LearningModule) Register(rg *gin.RouterGroup) {
	addLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/learningContent", m.Handler.List)
		auth.POST("/learningContent/add", addLimiter, m.Handler.Add)
	}
}
