package handlers

import (
	"time"

	_ "storefront-sync/docs" // Import docs for Swagger
	"storefront-sync/pkg/logger"
	"storefront-sync/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// IdempotencyTTL is how long a replayed write returns its first response.
const IdempotencyTTL = 5 * time.Minute

// NewRouter builds the gin engine with the middleware chain and /api/v1 routes.
func NewRouter(h *StorefrontHandler, requestIDs middleware.RequestIDStore, appLogger *zap.Logger) *gin.Engine {
	router := gin.New()

	// CORS must run first to answer preflight requests
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	if requestIDs != nil {
		router.Use(middleware.IdempotencyMiddleware(requestIDs, appLogger, IdempotencyTTL))
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health)

		v1.GET("/sales/active", h.ActiveSales)
		v1.GET("/sales/expired", h.ExpiredSales)
		v1.GET("/markets", h.ListMarkets)
		v1.GET("/events", h.ListEvents)
		v1.GET("/announcements", h.ListAnnouncements)
		v1.GET("/catalog", h.GetCatalog)

		v1.POST("/refresh", h.Refresh)
		v1.POST("/lifecycle/:trigger", h.Lifecycle)

		inbox := v1.Group("/inbox")
		{
			inbox.GET("", h.ListInbox)
			inbox.GET("/home", h.HomeNotifications)
			inbox.POST("/read-all", h.MarkAllRead)
			inbox.POST("/:id/read", h.MarkRead)
			inbox.POST("/:id/dismiss", h.DismissFromHome)
			inbox.DELETE("/:id", h.RemoveInboxItem)
			inbox.DELETE("", h.ClearInbox)
		}

		v1.POST("/device/push-token", h.SetPushToken)
		v1.GET("/device", h.DeviceStatus)

		v1.GET("/preferences", h.GetPreferences)
		v1.PUT("/preferences", h.UpdatePreferences)

		v1.GET("/favorites", h.ListFavorites)
		v1.PUT("/favorites/:id", h.AddFavorite)
		v1.DELETE("/favorites/:id", h.RemoveFavorite)
	}

	return router
}
