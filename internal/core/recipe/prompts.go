package recipe

import (
	"fmt"

	"smartpantry/internal/pkg/common"
)

// suggestPrompt 推薦食譜提示詞
func suggestPrompt(descriptors []string) string {
	return fmt.Sprintf(`Based on these ingredients: %s, suggest 3-4 possible recipes.
Focus on reducing food waste. Provide brief summaries.`, common.FormatIngredientList(descriptors))
}

// detailPrompt 詳細食譜提示詞
func detailPrompt(title string, pantryNames []string) string {
	return fmt.Sprintf(`Generate a detailed recipe for "%s".
The user has: %s.
Highlight which ingredients are missing. Include nutrition and substitutions.`, title, common.FormatIngredientList(pantryNames))
}

// imagePrompt 食譜圖片提示詞
func imagePrompt(title string) string {
	return fmt.Sprintf("A high-quality, professional food photography shot of %s, styled for a cookbook, on a clean kitchen table.", title)
}
