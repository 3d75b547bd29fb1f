package api

import (
	"time"

	"smartpantry/internal/api/handlers/health"
	pantryHandler "smartpantry/internal/api/handlers/pantry"
	recipeHandler "smartpantry/internal/api/handlers/recipe"
	viewHandler "smartpantry/internal/api/handlers/view"
	"smartpantry/internal/api/middleware"
	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/core/view"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services 路由所需的服務
type Services struct {
	Backend    cache.Backend
	Pantry     *pantry.Pantry
	Recipes    recipeHandler.Gateway
	Controller *view.Controller
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件；requestid 需在 Logger 之前
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Use(middleware.Inject(map[string]any{
		"config":        cfg,
		"cache_backend": svc.Backend,
	}))

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pantryH := pantryHandler.NewHandler(svc.Pantry)
	recipeH := recipeHandler.NewHandler(svc.Recipes)
	viewH := viewHandler.NewHandler(svc.Controller)

	// API 路由組
	api := router.Group("/api/v1")
	{
		pantryGroup := api.Group("/pantry")
		{
			pantryGroup.GET("", pantryH.HandleList)
			pantryGroup.POST("", pantryH.HandleAdd)
			pantryGroup.DELETE("", pantryH.HandleClear)
			pantryGroup.GET("/quick", pantryH.HandleQuickItems)
			pantryGroup.POST("/quick", pantryH.HandleQuickAdd)
			pantryGroup.DELETE("/:id", pantryH.HandleRemove)
		}

		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/suggest", recipeH.HandleSuggest)
			recipeGroup.POST("/detail", recipeH.HandleDetail)
			recipeGroup.POST("/image", recipeH.HandleImage)
		}

		viewGroup := api.Group("/view")
		{
			viewGroup.GET("", viewH.HandleState)
			viewGroup.POST("/navigate", viewH.HandleNavigate)
			viewGroup.POST("/discover", viewH.HandleDiscover)
			viewGroup.POST("/select", viewH.HandleSelect)
			viewGroup.GET("/image", viewH.HandleImage)
		}

		cookGroup := api.Group("/cook")
		{
			cookGroup.POST("/start", viewH.HandleStartCooking)
			cookGroup.POST("/next", viewH.HandleNextStep)
			cookGroup.POST("/prev", viewH.HandlePrevStep)
			cookGroup.POST("/finish", viewH.HandleFinishCooking)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
