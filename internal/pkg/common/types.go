package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Ingredient 食材櫃中的食材
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   string `json:"amount,omitempty"`
	Category string `json:"category"`
}

// Descriptor 回傳送給模型的食材描述（數量 + 名稱）
func (i Ingredient) Descriptor() string {
	return fmt.Sprintf("%s %s", i.Amount, i.Name)
}

// RecipeSummary 推薦食譜摘要
type RecipeSummary struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	PrepTime        string     `json:"prepTime"`
	Difficulty      Difficulty `json:"difficulty"`
	MatchPercentage float64    `json:"matchPercentage"`
}

// RecipeIngredient 詳細食譜中的食材
type RecipeIngredient struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	IsPantryItem bool   `json:"isPantryItem"`
}

// Instruction 食譜步驟
type Instruction struct {
	Step int    `json:"step"`
	Text string `json:"text"`
	Tip  string `json:"tip,omitempty"`
}

// UnmarshalJSON 模型可能以任意數字表示步驟（例如 1.0），取最接近的整數
func (i *Instruction) UnmarshalJSON(data []byte) error {
	type instruction Instruction
	aux := struct {
		Step json.Number `json:"step"`
		*instruction
	}{instruction: (*instruction)(i)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Step == "" {
		i.Step = 0
		return nil
	}

	step, err := aux.Step.Float64()
	if err != nil {
		return fmt.Errorf("invalid instruction step %q: %w", aux.Step, err)
	}
	i.Step = int(math.Round(step))
	return nil
}

// Nutrition 營養資訊，全部為模型產生的自由字串
type Nutrition struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fats     string `json:"fats"`
}

// DetailedRecipe 詳細食譜
type DetailedRecipe struct {
	RecipeSummary
	Ingredients   []RecipeIngredient `json:"ingredients"`
	Instructions  []Instruction      `json:"instructions"`
	Nutrition     Nutrition          `json:"nutrition"`
	Substitutions []string           `json:"substitutions"`
}

// MissingIngredients 回傳模型標記為不在食材櫃中的食材（購物清單）
func (r *DetailedRecipe) MissingIngredients() []RecipeIngredient {
	missing := make([]RecipeIngredient, 0)
	for _, ing := range r.Ingredients {
		if !ing.IsPantryItem {
			missing = append(missing, ing)
		}
	}
	return missing
}

// FormatIngredientList 將食材字串以逗號串接，用於 prompt
func FormatIngredientList(items []string) string {
	return strings.Join(items, ", ")
}
