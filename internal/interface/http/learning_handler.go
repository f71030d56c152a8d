package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/innomart/innomart-server/internal/application"
	"github.com/innomart/innomart-server/pkg/validation"
)

type LearningHandler struct {
	Svc    *application.LearningService
	Logger *logrus.Logger
}

func NewLearningHandler(svc *application.LearningService, logger *logrus.Logger) *LearningHandler {
	return &LearningHandler{Svc: svc, Logger: logger}
}

type addLearningRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required,url"`
}

// List GET /api/learningContent
func (h *LearningHandler) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch content"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add POST /api/learningContent/add
func (h *LearningHandler) Add(c *gin.Context) {
	var req addLearningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and content are required", "details": validation.ToDetails(err)})
		return
	}
	lc, err := h.Svc.Add(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add content"})
		return
	}
	c.JSON(http.StatusCreated, lc)
}
