// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/techshopvn/techshop-backend/internal/cache"
	"github.com/techshopvn/techshop-backend/internal/config"
	"github.com/techshopvn/techshop-backend/internal/handlers"
	"github.com/techshopvn/techshop-backend/internal/middleware"
	"github.com/techshopvn/techshop-backend/internal/services"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	var productCache cache.Cache
	if cfg.Redis.Addr != "" {
		productCache = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	statsService := services.NewStatsService(db)
	authorizationService := services.NewAuthorizationService()
	storageService, _ := services.NewStorageService(cfg.AWS)
	paymentService := services.NewPaymentService(db, cfg.Payment)

	authService := services.NewAuthService(db, cfg.JWT)
	productService := services.NewProductService(db, statsService, productCache)
	orderService := services.NewOrderService(db, statsService, authorizationService, paymentService, cfg.Shipping)
	favoriteService := services.NewFavoriteService(db, statsService)
	historyService := services.NewViewHistoryService(db, statsService)
	commentService := services.NewCommentService(db, statsService, authorizationService, orderService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, historyService, storageService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	historyHandler := handlers.NewViewHistoryHandler(historyService)
	commentHandler := handlers.NewCommentHandler(commentService, storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", middleware.AuthRateLimit(), authHandler.Register)
			users.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			users.POST("/refresh", middleware.AuthRateLimit(), authHandler.Refresh)
			users.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			users.PUT("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.GET("/:id/similar", productHandler.GetSimilarProducts)
			products.GET("/:id/stats", productHandler.GetProductStats)

			admin := products.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", productHandler.CreateProduct)
				admin.PUT("/:id", productHandler.UpdateProduct)
				admin.DELETE("/:id", productHandler.DeleteProduct)
				admin.POST("/upload", middleware.UploadRateLimit(), productHandler.UploadImage)
			}
		}

		// Order routes
		orders := api.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetMyOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/cancel", orderHandler.CancelOrder)
			orders.POST("/:id/confirm-payment", orderHandler.ConfirmPayment)

			orders.PUT("/:id/status", middleware.AdminRequired(), orderHandler.UpdateOrderStatus)
			orders.GET("/admin/all", middleware.AdminRequired(), orderHandler.GetAllOrders)
		}

		// Favorite routes
		favorites := api.Group("/favorites")
		favorites.Use(middleware.AuthRequired())
		{
			favorites.GET("", favoriteHandler.GetFavorites)
			favorites.POST("", favoriteHandler.AddFavorite)
			favorites.DELETE("/:productId", favoriteHandler.RemoveFavorite)
			favorites.POST("/toggle/:productId", favoriteHandler.ToggleFavorite)
			favorites.GET("/check/:productId", favoriteHandler.CheckFavorite)
		}

		// View history routes
		history := api.Group("/view-history")
		history.Use(middleware.AuthRequired())
		{
			history.GET("", historyHandler.GetHistory)
			history.POST("", historyHandler.RecordView)
			history.GET("/recent", historyHandler.GetRecent)
			history.DELETE("/:productId", historyHandler.RemoveEntry)
			history.DELETE("", historyHandler.ClearHistory)
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			comments.GET("/product/:productId", commentHandler.GetProductComments)

			protected := comments.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", commentHandler.CreateComment)
				protected.PUT("/:id", commentHandler.UpdateComment)
				protected.DELETE("/:id", commentHandler.DeleteComment)
				protected.POST("/:id/like", commentHandler.ToggleLike)
				protected.GET("/my-comments", commentHandler.GetMyComments)
				protected.POST("/upload", middleware.UploadRateLimit(), commentHandler.UploadImage)
			}
		}
	}

	return r
}
