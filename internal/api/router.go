package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"parking-garage-backend/config"
	"parking-garage-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router around the handler.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimit(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Read endpoints sit behind a short-lived response cache; staleness is
	// bounded by the TTL. Mutating endpoints are never cached.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/machines", h.ParkMachine)
		api.DELETE("/machines/:machine_id", h.UnparkMachine)
		api.GET("/machines/:machine_id", h.LocateMachine)

		api.GET("/availability", caching, h.GetAvailability)
		api.GET("/full", caching, h.GetFull)
		api.GET("/events", h.GetEvents)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
