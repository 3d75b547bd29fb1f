package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// Name 提供者名稱
	Name = "openrouter"

	defaultBaseURL = "https://openrouter.ai/api/v1"
)

// Client OpenRouter API 客戶端
type Client struct {
	client    *resty.Client
	maxTokens int
}

// Message 消息結構
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示 API 請求
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Modalities     []string        `json:"modalities,omitempty"`
	ImageConfig    *ImageConfig    `json:"image_config,omitempty"`
}

// ResponseFormat 結構化輸出設定
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// JSONSchema 命名的 JSON schema
type JSONSchema struct {
	Name   string           `json:"name"`
	Strict bool             `json:"strict"`
	Schema *provider.Schema `json:"schema"`
}

// ImageConfig 圖片生成設定
type ImageConfig struct {
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// Response OpenRouter 響應結構
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice 選擇結構
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage 回應消息，圖片模型會附帶 images
type ResponseMessage struct {
	Role    string         `json:"role"`
	Content string         `json:"content"`
	Images  []ImageContent `json:"images,omitempty"`
}

// ImageContent 圖片內容
type ImageContent struct {
	Type     string `json:"type"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

// UsageInfo 使用量信息
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg *config.OpenRouterConfig, timeout time.Duration) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("HTTP-Referer", "https://smartpantry.app").
		SetHeader("X-Title", "SmartPantry")

	return &Client{
		client:    client,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name 提供者名稱
func (c *Client) Name() string {
	return Name
}

// GenerateText 生成文字，有 schema 時要求 json_schema 輸出
func (c *Client) GenerateText(ctx context.Context, req *provider.TextRequest) (string, error) {
	body := &Request{
		Model:     req.Model,
		Messages:  []Message{{Role: "user", Content: req.Prompt}},
		MaxTokens: c.maxTokens,
	}
	if req.Schema != nil {
		body.ResponseFormat = &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   "response",
				Strict: false,
				Schema: req.Schema,
			},
		}
	}

	resp, err := c.send(ctx, body)
	if err != nil {
		return "", err
	}

	// 空的 choices 交給呼叫端依空字串處理
	if len(resp.Choices) == 0 {
		common.LogWarn("Empty choices in AI service response", zap.String("model", req.Model))
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateImage 生成圖片，回應沒有圖片時回傳 nil, nil
func (c *Client) GenerateImage(ctx context.Context, req *provider.ImageRequest) (*provider.Image, error) {
	body := &Request{
		Model:      req.Model,
		Messages:   []Message{{Role: "user", Content: req.Prompt}},
		Modalities: []string{"image", "text"},
	}
	if req.AspectRatio != "" {
		body.ImageConfig = &ImageConfig{AspectRatio: req.AspectRatio}
	}

	resp, err := c.send(ctx, body)
	if err != nil {
		return nil, err
	}

	for _, choice := range resp.Choices {
		for _, img := range choice.Message.Images {
			if parsed, ok := provider.ParseDataURI(img.ImageURL.URL); ok {
				return parsed, nil
			}
		}
	}

	common.LogWarn("No image in AI service response", zap.String("model", req.Model))
	return nil, nil
}

// send 發送 chat completions 請求
func (c *Client) send(ctx context.Context, body *Request) (*Response, error) {
	common.LogInfo("Sending request to OpenRouter",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
		zap.Bool("structured", body.ResponseFormat != nil),
		zap.Strings("modalities", body.Modalities),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		common.LogError("Failed to send request to AI service",
			zap.Error(err),
			zap.String("model", body.Model),
		)
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		sanitized := sanitizeResponse(resp.Body())
		common.LogError("AI service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", body.Model),
			zap.String("response", sanitized),
		)
		return nil, fmt.Errorf("OpenRouter API error (status %d): %s", resp.StatusCode(), sanitized)
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		common.LogError("Failed to parse AI service response",
			zap.Error(err),
			zap.String("model", body.Model),
			zap.String("response", sanitizeResponse(resp.Body())),
		)
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	common.LogInfo("Successfully generated response from AI service",
		zap.String("model", body.Model),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	return &result, nil
}

// sanitizeResponse 清理響應內容，移除所有圖片數據
func sanitizeResponse(body []byte) string {
	text := string(body)
	if strings.Contains(text, "data:image/") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(body) > 100 && strings.Contains(text, "base64") {
		return "[BASE64_DATA_REMOVED]"
	}
	return text
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
