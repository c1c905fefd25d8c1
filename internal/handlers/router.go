package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/config"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/middleware"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterDeps is everything the HTTP layer needs. Assistant may be nil.
type RouterDeps struct {
	Server           config.ServerConfig
	Log              *zap.Logger
	DB               Pinger
	Products         *services.ProductService
	Cashier          *services.CashierService
	Customers        *services.CustomerService
	Assistant        Asker
	AssistantTimeout time.Duration
}

// NewRouter builds the gin engine: middleware, the JSON API under /api and
// the static front-end for everything else.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(d.Log), middleware.Recovery(d.Log))
	r.Use(cors.New(corsConfig(d.Server.AllowedOrigins)))

	r.GET("/health", Health(d.DB))

	api := r.Group("/api")
	NewProductHandler(d.Products, d.Log).Register(api)
	NewCashierHandler(d.Cashier, d.Log).Register(api)
	NewCustomerHandler(d.Customers, d.Log).Register(api)
	NewAIHandler(d.Assistant, d.AssistantTimeout, d.Log).Register(api)

	r.NoRoute(frontend(d.Server.StaticDir))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// frontend serves files from dir and falls back to index.html so client-side
// routes survive a refresh. Unknown /api paths stay JSON 404s.
func frontend(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			c.File(file)
			return
		}
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	}
}
