package cache

import (
	"sort"
	"strings"
)

// keyDelimiter 不會出現在食材名稱中的分隔字元
const keyDelimiter = "|"

// 快取操作標籤
const (
	TagSuggestions = "suggestions"
	TagDetail      = "detail"
	TagImage       = "image"
)

// IngredientsKey 將食材名稱正規化為與順序、大小寫、前後空白無關的鍵
func IngredientsKey(names []string) string {
	normalized := make([]string, len(names))
	for i, name := range names {
		normalized[i] = strings.ToLower(strings.TrimSpace(name))
	}
	sort.Strings(normalized)
	return strings.Join(normalized, keyDelimiter)
}

// NormalizeTitle 正規化食譜名稱
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// SuggestionsKey 推薦食譜的快取鍵
func SuggestionsKey(descriptors []string) string {
	return TagSuggestions + "_" + IngredientsKey(descriptors)
}

// DetailKey 詳細食譜的快取鍵，包含食材櫃內容，因為缺少食材的標記取決於目前的食材
func DetailKey(title string, pantryNames []string) string {
	return TagDetail + "_" + NormalizeTitle(title) + "_" + IngredientsKey(pantryNames)
}

// ImageKey 食譜圖片的快取鍵，與食材櫃無關
func ImageKey(title string) string {
	return TagImage + "_" + NormalizeTitle(title)
}
