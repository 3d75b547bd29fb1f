package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartpantry/internal/api"
	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/core/recipe"
	"smartpantry/internal/core/view"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("gemini_api_key", config.MaskAPIKey(cfg.Gemini.APIKey)),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("text_model", cfg.AI.TextModel),
		zap.String("image_model", cfg.AI.ImageModel),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 初始化儲存後端，快取與食材櫃共用
	backend, err := cache.NewBackend(&cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache backend", zap.Error(err))
	}
	defer backend.Close()

	store := cache.NewStore(backend, cfg.Cache.Prefix)

	ctx := context.Background()

	p := pantry.New(backend, cfg.Pantry.StorageKey)
	if err := p.Load(ctx); err != nil {
		// 讀取失敗時以空食材櫃啟動
		common.LogWarn("Failed to load pantry", zap.Error(err))
	}

	aiProvider, err := service.NewProvider(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize AI provider", zap.Error(err))
	}
	defer aiProvider.Close()

	gateway := recipe.NewGateway(aiProvider, store, recipe.Options{
		TextModel:   cfg.AI.TextModel,
		ImageModel:  cfg.AI.ImageModel,
		AspectRatio: cfg.AI.ImageAspectRatio,
	})
	controller := view.NewController(p, gateway)

	router := api.SetupRouter(cfg, api.Services{
		Backend:    backend,
		Pantry:     p,
		Recipes:    gateway,
		Controller: controller,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.String("addr", srv.Addr),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
