package service

import (
	"context"
	"fmt"

	"smartpantry/internal/core/ai/gemini"
	"smartpantry/internal/core/ai/openrouter"
	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

// NewProvider 依設定建立 AI 提供者
func NewProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	var (
		p   provider.Provider
		err error
	)

	switch cfg.AI.Provider {
	case config.ProviderGemini, "":
		p, err = gemini.NewClient(ctx, cfg.Gemini.APIKey)
	case config.ProviderOpenRouter:
		p, err = openrouter.NewClient(&cfg.OpenRouter, cfg.AI.Timeout)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
	if err != nil {
		return nil, err
	}

	common.LogInfo("AI 提供者已初始化",
		zap.String("provider", p.Name()),
		zap.String("text_model", cfg.AI.TextModel),
		zap.String("image_model", cfg.AI.ImageModel),
	)

	return p, nil
}
