package router

import "github.com/gin-gonic/gin"

// Module is one feature area (accounts, market, learning) registering its
// own routes on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
