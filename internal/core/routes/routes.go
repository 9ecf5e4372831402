package routes

import (
	"prodtrack/internal/core/container"
	"prodtrack/internal/middleware"
	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.OrderHandler.RegisterRoutes(protectedRoutes)
	container.ProductionHandler.RegisterRoutes(protectedRoutes)
	container.AlertHandler.RegisterRoutes(protectedRoutes)
	container.LogbookHandler.RegisterRoutes(protectedRoutes)
	container.RevisionHandler.RegisterRoutes(protectedRoutes)
	container.ReportHandler.RegisterRoutes(protectedRoutes)
	container.UserHandler.RegisterRoutes(protectedRoutes)
	container.AuditLogHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
