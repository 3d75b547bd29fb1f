package recipe

import "smartpantry/internal/core/ai/provider"

func str() *provider.Schema { return &provider.Schema{Type: provider.TypeString} }
func num() *provider.Schema { return &provider.Schema{Type: provider.TypeNumber} }

// summaryProperties 食譜摘要欄位
func summaryProperties() map[string]*provider.Schema {
	return map[string]*provider.Schema{
		"id":              str(),
		"title":           str(),
		"description":     str(),
		"prepTime":        str(),
		"difficulty":      str(),
		"matchPercentage": num(),
	}
}

// suggestionsSchema 推薦食譜陣列
func suggestionsSchema() *provider.Schema {
	return &provider.Schema{
		Type: provider.TypeArray,
		Items: &provider.Schema{
			Type:       provider.TypeObject,
			Properties: summaryProperties(),
			Required:   []string{"id", "title", "description", "prepTime", "difficulty", "matchPercentage"},
		},
	}
}

// detailSchema 詳細食譜
func detailSchema() *provider.Schema {
	props := summaryProperties()
	props["ingredients"] = &provider.Schema{
		Type: provider.TypeArray,
		Items: &provider.Schema{
			Type: provider.TypeObject,
			Properties: map[string]*provider.Schema{
				"name":         str(),
				"amount":       str(),
				"isPantryItem": {Type: provider.TypeBoolean},
			},
		},
	}
	props["instructions"] = &provider.Schema{
		Type: provider.TypeArray,
		Items: &provider.Schema{
			Type: provider.TypeObject,
			Properties: map[string]*provider.Schema{
				"step": num(),
				"text": str(),
				"tip":  str(),
			},
		},
	}
	props["nutrition"] = &provider.Schema{
		Type: provider.TypeObject,
		Properties: map[string]*provider.Schema{
			"calories": str(),
			"protein":  str(),
			"carbs":    str(),
			"fats":     str(),
		},
	}
	props["substitutions"] = &provider.Schema{
		Type:  provider.TypeArray,
		Items: str(),
	}

	return &provider.Schema{
		Type:       provider.TypeObject,
		Properties: props,
		Required:   []string{"id", "title", "ingredients", "instructions", "nutrition"},
	}
}
