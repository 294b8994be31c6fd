package router

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/novellea/novellea-api/pkg/cart"
	"github.com/novellea/novellea-api/pkg/inventory"
	"github.com/novellea/novellea-api/pkg/orders"
)

var Router *gin.Engine

var (
	orderEngine *orders.Engine
	cartService *cart.Service
	stockLedger inventory.Ledger
)

func InitEngine() {
	Router = gin.Default()
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "https://shop.novellea.dev"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	Router.Use(PrometheusMiddleware())
}

// InitServices hands the wired-up services to the handlers.
func InitServices(engine *orders.Engine, carts *cart.Service, ledger inventory.Ledger) {
	orderEngine = engine
	cartService = carts
	stockLedger = ledger
}
