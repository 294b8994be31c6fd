package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitializeRoutes() {
	Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		// Full order lookup by external order number lives outside the
		// orders group so the literal segment cannot collide with :orderId.
		api.GET("/track/:orderNumber", TrackByOrderNumber)

		orders := api.Group("/orders")
		orders.Use(AuthMiddleware())
		{
			orders.POST("", CreateOrder)
			orders.GET("", GetUserOrders)
			orders.GET("/:orderId", GetOrderByID)
			orders.PUT("/:orderId/status", UpdateOrderStatus)
			orders.POST("/:orderId/cancel", CancelOrder)
			orders.POST("/:orderId/return", ReturnOrder)
			orders.POST("/:orderId/reorder", Reorder)
			orders.GET("/:orderId/track", TrackOrder)
		}

		cart := api.Group("/cart")
		{
			cart.POST("/add", AddToCart)
			cart.PUT("/update", UpdateCartItem)
			cart.GET("/user/:userId", GetUserCart)
			cart.GET("/count", GetCartItemCount)
			cart.DELETE("/remove/:userId/:bookId", RemoveFromCart)
			cart.DELETE("/clear/:userId", ClearCart)
			cart.POST("/sync", SyncCart)
		}

		inventory := api.Group("/inventory")
		{
			inventory.GET("", ListStock)
			inventory.GET("/check", CheckStock)
			inventory.POST("/update", UpdateStock)
			inventory.POST("/reduce", ReduceStock)
			inventory.GET("/product/:productId", GetStock)
		}
	}
}
