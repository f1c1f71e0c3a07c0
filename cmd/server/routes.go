package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-launchpad.backend/internal/infrastructure/metrics"
	"nft-launchpad.backend/internal/interfaces/http/handlers"
	"nft-launchpad.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "nft-launchpad-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	collectionHandler   *handlers.CollectionHandler
	scannerHandler      *handlers.NFTScannerHandler
	marketplaceHandler  *handlers.MarketplaceHandler
	launchPoolHandler   *handlers.LaunchPoolHandler
	waitlistHandler     *handlers.WaitlistHandler
	adminHandler        *handlers.AdminHandler
	adminAuthMiddleware gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, m *metrics.Metrics) {
	r.GET("/metrics", gin.WrapH(m.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Collections (public)
		collections := v1.Group("/collections")
		{
			collections.GET("", d.collectionHandler.ListCollections)
			collections.GET("/:address", d.collectionHandler.GetCollection)
			collections.GET("/:address/preview", d.collectionHandler.Preview)
		}

		// NFTs (public)
		nfts := v1.Group("/nfts")
		{
			nfts.GET("/collection/:address", d.collectionHandler.ScanCollection)
			nfts.GET("/:address/:tokenId", d.collectionHandler.GetNFT)
		}

		v1.GET("/nft-scanner", d.scannerHandler.Handle)

		// Marketplace: unsigned calls only, the wallet signs
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("/listings", d.marketplaceHandler.Listings)
			marketplace.POST("/list", d.marketplaceHandler.List)
			marketplace.POST("/buy", d.marketplaceHandler.Buy)
			marketplace.POST("/cancel", d.marketplaceHandler.Cancel)
		}

		launchPools := v1.Group("/launch-pools")
		{
			launchPools.GET("", d.launchPoolHandler.ListLaunchPools)
			launchPools.GET("/:id", d.launchPoolHandler.GetLaunchPool)
			launchPools.POST("", middleware.IdempotencyMiddleware(), d.launchPoolHandler.CreateLaunchPool)
			launchPools.PATCH("/:id/status", d.adminAuthMiddleware, d.launchPoolHandler.UpdateLaunchPoolStatus)
		}

		waitlist := v1.Group("/waitlist")
		{
			waitlist.POST("", middleware.IdempotencyMiddleware(), d.waitlistHandler.Join)
			waitlist.GET("/count", d.waitlistHandler.Count)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.adminAuthMiddleware)
		{
			admin.POST("/cache/clear", d.adminHandler.ClearCache)
			admin.POST("/collections/cleanup-unverified", d.adminHandler.CleanupUnverified)
			admin.POST("/collections/:address/refresh", d.adminHandler.RefreshCollection)
		}
	}
}
