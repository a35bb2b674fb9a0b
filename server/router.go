package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "imospy/interfaces/http"
	"imospy/interfaces/middleware"
)

// Handlers are the route targets. Stream and Metrics are optional.
type Handlers struct {
	Health  httpHandler.IHealthHandler
	Account httpHandler.IAccountHandler
	Scrape  httpHandler.IScrapeHandler
	Content httpHandler.IContentHandler
	Ad      httpHandler.IAdHandler
	Proxy   httpHandler.IProxyHandler
	Stream  gin.HandlerFunc
	Metrics http.Handler
}

// RouterConfig carries the settings the router needs.
type RouterConfig struct {
	SecretKey      string
	AllowedOrigins []string
}

func InitiateRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/healthz", h.Health.Healthz)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("api")
	api.Use(middleware.Auth(cfg.SecretKey))

	api.GET("/accounts", h.Account.List)
	api.POST("/accounts", h.Account.Create)
	api.PUT("/accounts/:id", h.Account.Update)
	api.DELETE("/accounts/:id", h.Account.Delete)

	api.POST("/scrape", h.Scrape.Scrape)
	if h.Stream != nil {
		api.GET("/scrape/stream", h.Stream)
	}

	api.GET("/content", h.Content.ListAll)
	api.GET("/content/:accountId", h.Content.ListByAccount)

	api.POST("/analyze-ads", h.Ad.Analyze)
	api.GET("/analyze-ads/history", h.Ad.History)

	api.GET("/proxy-image", h.Proxy.ProxyImage)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
		return cfg
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
		allowed[o] = true
	}
	cfg.AllowOrigins = origins
	cfg.AllowOriginFunc = func(origin string) bool { return allowed[origin] }
	return cfg
}
