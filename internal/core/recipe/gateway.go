package recipe

import (
	"context"
	"strings"
	"time"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/infrastructure/metrics"
	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

// 預設模型與圖片長寬比
const (
	DefaultTextModel   = "gemini-3-flash-preview"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultAspectRatio = "16:9"
)

// AI 操作名稱，用於日誌與指標
const (
	OperationSuggest = "suggest"
	OperationDetail  = "detail"
	OperationImage   = "image"
)

// Cache 閘道使用的快取
type Cache interface {
	Get(ctx context.Context, key string, v any) bool
	Set(ctx context.Context, key string, v any)
}

// Options 閘道設定
type Options struct {
	TextModel   string
	ImageModel  string
	AspectRatio string
}

// Gateway 先查快取、未命中才呼叫模型的食譜閘道。
// 模型呼叫一旦開始便不受呼叫端取消影響，結果仍會寫入快取。
type Gateway struct {
	provider provider.Provider
	cache    Cache
	opts     Options
}

// NewGateway 創建食譜閘道
func NewGateway(p provider.Provider, c Cache, opts Options) *Gateway {
	if opts.TextModel == "" {
		opts.TextModel = DefaultTextModel
	}
	if opts.ImageModel == "" {
		opts.ImageModel = DefaultImageModel
	}
	if opts.AspectRatio == "" {
		opts.AspectRatio = DefaultAspectRatio
	}
	return &Gateway{
		provider: p,
		cache:    c,
		opts:     opts,
	}
}

// SuggestRecipes 依食材描述推薦 3-4 道食譜。
// 模型錯誤或輸出無法解析時回傳空切片且不寫入快取。
func (g *Gateway) SuggestRecipes(ctx context.Context, descriptors []string) []common.RecipeSummary {
	ctx = context.WithoutCancel(ctx)
	key := cache.SuggestionsKey(descriptors)

	var cached []common.RecipeSummary
	if g.cache.Get(ctx, key, &cached) && cached != nil {
		common.LogInfo("Serving recipe suggestions from cache", zap.Int("count", len(cached)))
		return cached
	}

	text, err := g.generateText(ctx, OperationSuggest, &provider.TextRequest{
		Model:  g.opts.TextModel,
		Prompt: suggestPrompt(descriptors),
		Schema: suggestionsSchema(),
	})
	if err != nil {
		return []common.RecipeSummary{}
	}

	text = common.StripCodeFence(text)
	if text == "" {
		text = "[]"
	}

	var suggestions []common.RecipeSummary
	if err := common.ParseJSON(text, &suggestions); err != nil {
		common.LogError("Failed to parse recipes", zap.Error(err), zap.Int("response_length", len(text)))
		return []common.RecipeSummary{}
	}
	if suggestions == nil {
		return []common.RecipeSummary{}
	}

	g.cache.Set(ctx, key, suggestions)
	return suggestions
}

// GetDetailedRecipe 取得詳細食譜；快取鍵包含目前食材櫃，因為缺少食材的標記取決於食材櫃內容。
// 與 SuggestRecipes 不同，模型錯誤與解析錯誤都會回傳給呼叫端。
func (g *Gateway) GetDetailedRecipe(ctx context.Context, title string, pantryNames []string) (*common.DetailedRecipe, error) {
	ctx = context.WithoutCancel(ctx)
	key := cache.DetailKey(title, pantryNames)

	var cached *common.DetailedRecipe
	if g.cache.Get(ctx, key, &cached) && cached != nil {
		common.LogInfo("Serving detailed recipe from cache", zap.String("title", title))
		return cached, nil
	}

	text, err := g.generateText(ctx, OperationDetail, &provider.TextRequest{
		Model:  g.opts.TextModel,
		Prompt: detailPrompt(title, pantryNames),
		Schema: detailSchema(),
	})
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(err)
	}

	text = common.StripCodeFence(text)
	if text == "" {
		text = "{}"
	}

	var detail *common.DetailedRecipe
	if err := common.ParseJSON(text, &detail); err != nil {
		common.LogError("Failed to parse detailed recipe", zap.Error(err), zap.String("title", title))
		return nil, common.ErrInvalidModelOutput.Wrap(err)
	}
	if detail == nil {
		return nil, common.ErrInvalidModelOutput
	}

	g.cache.Set(ctx, key, detail)
	return detail, nil
}

// GenerateRecipeImage 生成食譜圖片並回傳 data URI；失敗或沒有圖片時回傳 false，不會回傳錯誤
func (g *Gateway) GenerateRecipeImage(ctx context.Context, title string) (string, bool) {
	ctx = context.WithoutCancel(ctx)
	key := cache.ImageKey(title)

	var cached string
	if g.cache.Get(ctx, key, &cached) && cached != "" {
		common.LogInfo("Serving image from cache", zap.String("title", title))
		return cached, true
	}

	start := time.Now()
	img, err := g.provider.GenerateImage(ctx, &provider.ImageRequest{
		Model:       g.opts.ImageModel,
		Prompt:      imagePrompt(title),
		AspectRatio: g.opts.AspectRatio,
	})
	g.observe(OperationImage, start, err)
	if err != nil {
		common.LogError("Image generation error", zap.String("title", title), zap.Error(err))
		return "", false
	}
	if img == nil || strings.TrimSpace(img.Data) == "" {
		common.LogWarn("Image generation returned no payload", zap.String("title", title))
		return "", false
	}

	uri := img.DataURI()
	g.cache.Set(ctx, key, uri)
	return uri, true
}

// generateText 呼叫模型並記錄耗時與結果
func (g *Gateway) generateText(ctx context.Context, operation string, req *provider.TextRequest) (string, error) {
	start := time.Now()
	text, err := g.provider.GenerateText(ctx, req)
	g.observe(operation, start, err)
	return text, err
}

func (g *Gateway) observe(operation string, start time.Time, err error) {
	common.LogAICall(operation, time.Since(start), err)
	metrics.ObserveAI(g.provider.Name(), operation, start, err)
}
