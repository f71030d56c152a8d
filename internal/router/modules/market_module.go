package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/innomart/innomart-server/internal/interface/http"
	"github.com/innomart/innomart-server/internal/interface/middleware"
	"github.com/innomart/innomart-server/pkg/helpers"
)

// MarketModule wires catalog and purchase routes.
// Public: GET /api/innovations1, GET /api/innovations/search
// Everything else requires a bearer token.

type MarketModule struct {
	Listings  *handlers.ListingHandler
	Purchases *handlers.PurchaseHandler
	JWT       *helpers.JWTManager
}

func NewMarketModule(l *handlers.ListingHandler, p *handlers.PurchaseHandler, jwt *helpers.JWTManager) *MarketModule {
	return &MarketModule{Listings: l, Purchases: p, JWT: jwt}
}

func (m *MarketModule) Register(rg *gin.RouterGroup) {
	// Public catalog. The "/innovations1" path is what the mobile client
	// calls for the shared market feed.
	rg.GET("/innovations1", m.Listings.ListAllPublic)
	rg.GET("/innovations/search", m.Listings.Search)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/innovations", m.Listings.Create)
		auth.GET("/innovations", m.Listings.ListMine)
		auth.PUT("/innovations/:id", m.Listings.Update)
		auth.DELETE("/innovations/:id", m.Listings.Delete)
		auth.PATCH("/innovations/:id/update-sales", m.Listings.UpdateSales)
		auth.POST("/innovations/:id/image", m.Listings.UploadImage)

		auth.POST("/innovations/:id/purchase", m.Purchases.Complete)
		auth.POST("/purchases", m.Purchases.Record)
		auth.GET("/purchases", m.Purchases.Orders)
	}
}
