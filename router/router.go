package router

import (
	"DocVault/config"
	"DocVault/internal/handler"
	"DocVault/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	auth := r.Group("/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", handler.Login)
	}

	documents := r.Group("/documents")
	documents.Use(utils.AuthMiddleware())
	{
		documents.POST("/upload", utils.MaxBodySize(config.AppConfig.MaxUploadBytes), handler.Upload)
		documents.GET("/", handler.List)
		documents.GET("/:id", handler.Download)
		documents.DELETE("/:id", handler.Delete)
	}

	return r
}
