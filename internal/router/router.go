package router

import (
	"github.com/atelier-market/atelier-api/internal/config"
	publichandlers "github.com/atelier-market/atelier-api/internal/http/handlers/public"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes onto a fresh engine.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// Product pages serve signed-out visitors too, so auth is optional
		// here. A valid token still personalizes recommendations.
		viewer := apiV1.Group("")
		viewer.Use(OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			viewer.GET("/products/:id", publicHandler.GetProduct)
		}

		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/cart", publicHandler.ListCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)

			user.POST("/products/:id/like", publicHandler.ToggleLike)
			user.POST("/products/:id/bookmark", publicHandler.ToggleBookmark)
			user.POST("/users/:id/follow", publicHandler.ToggleFollow)

			user.POST("/checkout", publicHandler.OpenCheckout)
			user.POST("/checkout/submit", publicHandler.SubmitOrder)

			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.GET("/notifications", publicHandler.ListNotifications)
			user.POST("/notifications/:id/read", publicHandler.ReadNotification)
		}

		// Gateway deliveries authenticate by signature, not by token.
		apiV1.POST("/payments/webhook", publicHandler.PaymentWebhook)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
