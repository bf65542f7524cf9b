package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"units-exchange.backend/internal/interfaces/http/handlers"
	"units-exchange.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	walletHandler   *handlers.WalletHandler
	giftCardHandler *handlers.GiftCardHandler
	trustHandler    *handlers.TrustHandler
	authMiddleware  gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
		}

		// Transfer routes (protected, idempotent)
		transfers := v1.Group("/transfers")
		transfers.Use(d.authMiddleware)
		{
			transfers.POST("", middleware.IdempotencyMiddleware(), d.walletHandler.Transfer)
		}

		// Wallet routes (protected)
		wallets := v1.Group("/wallets")
		wallets.Use(d.authMiddleware)
		{
			wallets.GET("/:userId", d.walletHandler.GetWallet)
			wallets.GET("/:userId/transactions", d.walletHandler.ListTransactions)
			wallets.PATCH("/:userId/credit-limit", middleware.RequireAdmin(), d.walletHandler.AdjustCreditLimit)
		}

		// Gift card routes; redemption is public because the redeemer has no
		// account yet
		giftCards := v1.Group("/gift-cards")
		{
			giftCards.POST("/redeem", d.giftCardHandler.Redeem)
			giftCards.POST("", d.authMiddleware, d.giftCardHandler.Issue)
			giftCards.GET("", d.authMiddleware, d.giftCardHandler.List)
			giftCards.GET("/stats", d.authMiddleware, d.giftCardHandler.Stats)
			giftCards.DELETE("/:id", d.authMiddleware, d.giftCardHandler.Cancel)
		}

		// Trust routes (protected)
		trust := v1.Group("/trust")
		trust.Use(d.authMiddleware)
		{
			trust.GET("/:userId", d.trustHandler.GetScore)
			trust.GET("/:userId/ratings", d.trustHandler.ListRatings)
			trust.POST("/rate", d.trustHandler.Rate)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "units-exchange-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, Idempotency-Key, X-Request-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
