package gemini

import (
	"context"
	"fmt"
	"strings"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/pkg/common"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Name 提供者名稱
const Name = "gemini"

// Client Gemini API 客戶端
type Client struct {
	client *genai.Client
}

// NewClient 創建新的 Gemini 客戶端
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client}, nil
}

// Name 提供者名稱
func (c *Client) Name() string {
	return Name
}

// GenerateText 以 JSON 模式生成文字
func (c *Client) GenerateText(ctx context.Context, req *provider.TextRequest) (string, error) {
	model := c.client.GenerativeModel(req.Model)
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}

	common.LogDebug("Sending request to Gemini", zap.String("model", req.Model))

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return textOf(resp), nil
}

// GenerateImage 生成圖片；SDK 沒有長寬比設定，改以提示詞傳達
func (c *Client) GenerateImage(ctx context.Context, req *provider.ImageRequest) (*provider.Image, error) {
	model := c.client.GenerativeModel(req.Model)

	prompt := req.Prompt
	if req.AspectRatio != "" {
		prompt = fmt.Sprintf("%s Aspect ratio %s.", prompt, req.AspectRatio)
	}

	common.LogDebug("Sending image request to Gemini",
		zap.String("model", req.Model),
		zap.String("aspect_ratio", req.AspectRatio),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate image: %w", err)
	}

	return imageOf(resp), nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	return c.client.Close()
}

// textOf 串接第一個候選回應中的所有文字片段
func textOf(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// imageOf 找出第一個內嵌圖片片段
func imageOf(resp *genai.GenerateContentResponse) *provider.Image {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return provider.NewImage(blob.MIMEType, blob.Data)
			}
		}
	}
	return nil
}

// toGenaiSchema 轉換為 SDK 的 schema
func toGenaiSchema(s *provider.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t string) genai.Type {
	switch t {
	case provider.TypeObject:
		return genai.TypeObject
	case provider.TypeArray:
		return genai.TypeArray
	case provider.TypeString:
		return genai.TypeString
	case provider.TypeNumber:
		return genai.TypeNumber
	case provider.TypeInteger:
		return genai.TypeInteger
	case provider.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
