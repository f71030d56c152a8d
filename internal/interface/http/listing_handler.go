package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/innomart/innomart-server/internal/application"
	"github.com/innomart/innomart-server/internal/domain/entity"
	"github.com/innomart/innomart-server/internal/domain/repository"
	"github.com/innomart/innomart-server/internal/interface/middleware"
	"github.com/innomart/innomart-server/pkg/validation"
)

type ListingHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewListingHandler(svc *application.CatalogService, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{Svc: svc, Logger: logger}
}

type addressPayload struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type contactPayload struct {
	Phone string `json:"phone" binding:"required"`
}

type createListingRequest struct {
	Name        string         `json:"name" binding:"required"`
	Cost        float64        `json:"cost" binding:"required,gt=0"`
	Description string         `json:"description" binding:"required"`
	UpiID       string         `json:"upiId" binding:"required"`
	Address     addressPayload `json:"address" binding:"required"`
	Contact     contactPayload `json:"contact" binding:"required"`
	ItemImage   string         `json:"itemImage" binding:"required"`
}

type updateListingRequest struct {
	Name        *string  `json:"name"`
	Cost        *float64 `json:"cost" binding:"omitempty,gt=0"`
	Description *string  `json:"description"`
}

type updateSalesRequest struct {
	Cost float64 `json:"cost" binding:"required,gt=0"`
}

// Create POST /api/innovations
func (h *ListingHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required", "details": validation.ToDetails(err)})
		return
	}
	l, err := h.Svc.Create(c.Request.Context(), uid, application.CreateListingInput{
		Name:        req.Name,
		Cost:        req.Cost,
		Description: req.Description,
		UpiID:       req.UpiID,
		Address: entity.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
			Country: req.Address.Country,
		},
		Contact:   entity.Contact{Phone: req.Contact.Phone},
		ItemImage: req.ItemImage,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add innovation"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

// ListMine GET /api/innovations
func (h *ListingHandler) ListMine(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	items, err := h.Svc.ListMine(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch innovations"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListAllPublic GET /api/innovations1
func (h *ListingHandler) ListAllPublic(c *gin.Context) {
	items, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Update PUT /api/innovations/:id
func (h *ListingHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("id")
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": validation.ToDetails(err)})
		return
	}
	l, err := h.Svc.Update(c.Request.Context(), id, uid, repository.ListingUpdate{
		Name:        req.Name,
		Cost:        req.Cost,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Innovation not found"})
		case errors.Is(err, application.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this innovation"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update innovation"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Innovation updated successfully", "innovation": l})
}

// Delete DELETE /api/innovations/:id
// A missing listing and a foreign one get the same 404 on purpose.
func (h *ListingHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), id, uid); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Innovation not found or not authorized to delete"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Innovation deleted successfully"})
}

// UpdateSales PATCH /api/innovations/:id/update-sales
// Legacy path kept for the old client; prefer POST /:id/purchase which does
// ledger entry and increment in one transaction.
func (h *ListingHandler) UpdateSales(c *gin.Context) {
	id := c.Param("id")
	var req updateSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "details": validation.ToDetails(err)})
		return
	}
	l, err := h.Svc.UpdateSales(c.Request.Context(), id, req.Cost)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Innovation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update innovation sales"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// UploadImage POST /api/innovations/:id/image
func (h *ListingHandler) UploadImage(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id := c.Param("id")

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "image file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadItemImage(c.Request.Context(), id, uid, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Innovation not found"})
		case errors.Is(err, application.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this innovation"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemImage": url})
}

// Search GET /api/innovations/search?q=
func (h *ListingHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "query parameter q is required"})
		return
	}
	docs, err := h.Svc.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, docs)
}
