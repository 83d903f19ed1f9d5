package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"push-dispatch-backend/config"
	"push-dispatch-backend/internal/mw"
	"push-dispatch-backend/internal/store"
)

// NewRouter creates and configures the Gin router.
func NewRouter(h *Handler, s store.Store, cfg *config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)

	notification := api.Group("/notification")
	notification.Use(mw.APIKeyAuth(s))
	{
		devices := notification.Group("/devices")
		{
			devices.POST("/register", h.RegisterDevice)
			devices.POST("/register-bulk", h.RegisterDevicesBulk)
			devices.POST("/deactivate", h.DeactivateDevice)
			devices.GET("/user-devices", h.GetUserDevices)
		}

		push := notification.Group("/push")
		{
			push.POST("/send-to-user", h.SendToUser)
			push.POST("/send-to-device", h.SendToDevice)
			push.POST("/send-to-group", h.SendToGroup)
			push.POST("/send-bulk", h.SendBulk)
		}

		client := notification.Group("/client")
		{
			client.GET("/me", h.GetClient)
			client.PUT("/update", h.UpdateClient)
		}

		tags := notification.Group("/tags")
		{
			tags.GET("", caching, h.ListTags)
			tags.POST("", h.CreateTag)
			tags.GET("/:tagId", h.GetTag)
			tags.PUT("/:tagId", h.UpdateTag)
			tags.DELETE("/:tagId", h.DeleteTag)
			tags.POST("/:tagId/users", h.AddTagUsers)
			tags.GET("/:tagId/users", h.GetTagUsers)
			tags.DELETE("/:tagId/users", h.RemoveTagUsers)
		}

		pins := notification.Group("/pins")
		{
			pins.GET("", caching, h.ListPins)
			pins.POST("/:pin/users", h.AddPinUsers)
			pins.GET("/:pin/users", h.GetPinUsers)
			pins.DELETE("/:pin/users", h.RemovePinUsers)
			pins.GET("/:pin", h.GetPin)
			pins.DELETE("/:pin", h.DeletePin)
		}
	}

	brokerGroup := api.Group("/broker")
	{
		brokerGroup.GET("/health", h.BrokerHealth)
		brokerGroup.GET("/topics", h.BrokerTopics)
	}

	return r
}
