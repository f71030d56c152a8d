package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/innomart/innomart-server/internal/application"
	"github.com/innomart/innomart-server/internal/interface/middleware"
	"github.com/innomart/innomart-server/pkg/validation"
)

type PurchaseHandler struct {
	Svc    *application.PurchaseService
	Logger *logrus.Logger
}

func NewPurchaseHandler(svc *application.PurchaseService, logger *logrus.Logger) *PurchaseHandler {
	return &PurchaseHandler{Svc: svc, Logger: logger}
}

type completePurchaseRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

type recordPurchaseRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	ProductName string  `json:"productName" binding:"required"`
	Cost        float64 `json:"cost" binding:"required,gt=0"`
}

// Complete POST /api/innovations/:id/purchase
// Records the ledger entry and bumps the listing's aggregates in one
// transaction. Retries with the same idempotency key are harmless.
func (h *PurchaseHandler) Complete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	listingID := c.Param("id")

	var req completePurchaseRequest
	// Body is optional when the key travels in the header.
	_ = c.ShouldBindJSON(&req)
	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("Idempotency-Key")
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Idempotency key is required"})
		return
	}

	p, l, err := h.Svc.Complete(c.Request.Context(), uid, listingID, key)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Innovation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing purchase"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Purchase successful",
		"purchase":   p,
		"innovation": l,
	})
}

// Record POST /api/purchases
// Legacy ledger append; does not touch aggregates.
func (h *PurchaseHandler) Record(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req recordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": validation.ToDetails(err)})
		return
	}
	p, err := h.Svc.Record(c.Request.Context(), uid, req.ProductID, req.ProductName, req.Cost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error recording purchase"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Purchase recorded successfully", "purchase": p})
}

// Orders GET /api/purchases
func (h *PurchaseHandler) Orders(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	orders, err := h.Svc.Orders(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}
