package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultImageMIMEType 回應未標示格式時使用的圖片類型
const DefaultImageMIMEType = "image/png"

// 結構化輸出的資料型別
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Schema 與供應商無關的結構化輸出描述
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// TextRequest 文字（JSON）生成請求
type TextRequest struct {
	Model  string
	Prompt string
	// Schema 為 nil 時不要求結構化輸出
	Schema *Schema
}

// ImageRequest 圖片生成請求
type ImageRequest struct {
	Model       string
	Prompt      string
	AspectRatio string
}

// Image 模型回傳的圖片，Data 為 base64 編碼
type Image struct {
	MIMEType string
	Data     string
}

// DataURI 轉為 data:<mime>;base64,<data>
func (i *Image) DataURI() string {
	mimeType := i.MIMEType
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, i.Data)
}

// NewImage 由原始位元組建立圖片
func NewImage(mimeType string, data []byte) *Image {
	return &Image{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}

// ParseDataURI 解析 data URI，格式不符時回傳 false
func ParseDataURI(uri string) (*Image, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, false
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok || data == "" {
		return nil, false
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, false
	}
	return &Image{MIMEType: mimeType, Data: data}, true
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// GenerateText 生成文字回應，回傳模型輸出的原始文字
	GenerateText(ctx context.Context, req *TextRequest) (string, error)

	// GenerateImage 生成圖片；回應中沒有圖片時回傳 nil, nil
	GenerateImage(ctx context.Context, req *ImageRequest) (*Image, error)

	// Name 提供者名稱
	Name() string

	// Close 關閉提供者連接
	Close() error
}
