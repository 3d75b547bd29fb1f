package view

import (
	"context"
	"errors"
	"testing"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecipes 記錄呼叫參數的食譜閘道
type fakeRecipes struct {
	suggestions  []common.RecipeSummary
	detail       *common.DetailedRecipe
	detailErr    error
	image        string
	suggestCalls [][]string
	detailTitles []string
	detailPantry [][]string
}

func (f *fakeRecipes) SuggestRecipes(ctx context.Context, descriptors []string) []common.RecipeSummary {
	f.suggestCalls = append(f.suggestCalls, descriptors)
	return f.suggestions
}

func (f *fakeRecipes) GetDetailedRecipe(ctx context.Context, title string, names []string) (*common.DetailedRecipe, error) {
	f.detailTitles = append(f.detailTitles, title)
	f.detailPantry = append(f.detailPantry, names)
	return f.detail, f.detailErr
}

func (f *fakeRecipes) GenerateRecipeImage(ctx context.Context, title string) (string, bool) {
	return f.image, f.image != ""
}

func omelette() *common.DetailedRecipe {
	return &common.DetailedRecipe{
		RecipeSummary: common.RecipeSummary{ID: "r1", Title: "Omelette"},
		Ingredients: []common.RecipeIngredient{
			{Name: "Eggs", Amount: "2", IsPantryItem: true},
			{Name: "Chives", Amount: "1 tbsp", IsPantryItem: false},
		},
		Instructions: []common.Instruction{
			{Step: 1, Text: "Whisk"},
			{Step: 2, Text: "Cook"},
			{Step: 3, Text: "Fold", Tip: "Low heat"},
			{Step: 4, Text: "Serve"},
		},
	}
}

func newTestController(t *testing.T, recipes *fakeRecipes, items ...string) *Controller {
	t.Helper()
	p := pantry.New(cache.NewManager(0), "")
	if len(items) > 0 {
		_, err := p.QuickAdd(context.Background(), items...)
		require.NoError(t, err)
	}
	return NewController(p, recipes)
}

func TestFindRecipesEmptyPantryIsNoop(t *testing.T) {
	recipes := &fakeRecipes{}
	c := newTestController(t, recipes)

	snapshot, err := c.FindRecipes(context.Background())
	assert.ErrorIs(t, err, common.ErrEmptyPantry)
	assert.Equal(t, ViewPantry, snapshot.View)
	assert.Empty(t, recipes.suggestCalls)
}

func TestFindRecipesUsesDescriptors(t *testing.T) {
	recipes := &fakeRecipes{suggestions: []common.RecipeSummary{{ID: "r1", Title: "Omelette"}}}
	c := newTestController(t, recipes, "200g flour", "Eggs")

	snapshot, err := c.FindRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ViewDiscover, snapshot.View)
	assert.False(t, snapshot.Loading)
	assert.Len(t, snapshot.Suggestions, 1)
	require.Len(t, recipes.suggestCalls, 1)
	assert.Equal(t, []string{"200g flour", " Eggs"}, recipes.suggestCalls[0])
}

func TestSelectRecipe(t *testing.T) {
	ctx := context.Background()
	recipes := &fakeRecipes{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "Omelette"}},
		detail:      omelette(),
	}
	c := newTestController(t, recipes, "200g flour", "Eggs")
	_, err := c.FindRecipes(ctx)
	require.NoError(t, err)

	_, err = c.SelectRecipe(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)

	snapshot, err := c.SelectRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, ViewRecipeDetail, snapshot.View)
	assert.Equal(t, "Omelette", snapshot.SelectedRecipe.Title)
	require.Len(t, snapshot.MissingIngredients, 1)
	assert.Equal(t, "Chives", snapshot.MissingIngredients[0].Name)

	// 詳細食譜只送食材名稱
	assert.Equal(t, []string{"flour", "Eggs"}, recipes.detailPantry[0])
}

func TestSelectRecipeFailureKeepsView(t *testing.T) {
	ctx := context.Background()
	recipes := &fakeRecipes{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "Omelette"}},
		detailErr:   common.ErrInvalidModelOutput.Wrap(errors.New("unexpected EOF")),
	}
	c := newTestController(t, recipes, "Eggs")
	_, err := c.FindRecipes(ctx)
	require.NoError(t, err)

	snapshot, err := c.SelectRecipe(ctx, "r1")
	assert.ErrorIs(t, err, common.ErrInvalidModelOutput)
	assert.Equal(t, ViewDiscover, snapshot.View)
	assert.Equal(t, ErrLoadingDetails, snapshot.LastError)
	assert.Nil(t, snapshot.SelectedRecipe)
	assert.False(t, snapshot.Loading)
}

func TestCookingMode(t *testing.T) {
	ctx := context.Background()
	recipes := &fakeRecipes{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "Omelette"}},
		detail:      omelette(),
	}
	c := newTestController(t, recipes, "Eggs")

	_, err := c.StartCooking()
	assert.ErrorIs(t, err, common.ErrNoRecipeSelected)

	_, err = c.FindRecipes(ctx)
	require.NoError(t, err)
	_, err = c.SelectRecipe(ctx, "r1")
	require.NoError(t, err)

	snapshot, err := c.StartCooking()
	require.NoError(t, err)
	require.NotNil(t, snapshot.Cooking)
	assert.Equal(t, ViewCookingMode, snapshot.View)
	assert.Equal(t, 0, snapshot.Cooking.Step)
	assert.Equal(t, 4, snapshot.Cooking.Total)
	assert.Equal(t, 25.0, snapshot.Cooking.Progress)
	assert.False(t, snapshot.Cooking.HasPrev)

	snapshot, err = c.PrevStep()
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Cooking.Step)

	for i := 0; i < 10; i++ {
		snapshot, err = c.NextStep()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, snapshot.Cooking.Step)
	assert.Equal(t, 100.0, snapshot.Cooking.Progress)
	assert.False(t, snapshot.Cooking.HasNext)
	assert.Equal(t, "Serve", snapshot.Cooking.Instruction.Text)

	snapshot, err = c.PrevStep()
	require.NoError(t, err)
	assert.Equal(t, "Low heat", snapshot.Cooking.Instruction.Tip)

	snapshot, err = c.FinishCooking()
	require.NoError(t, err)
	assert.Equal(t, ViewRecipeDetail, snapshot.View)
	assert.Nil(t, snapshot.Cooking)

	_, err = c.NextStep()
	assert.ErrorIs(t, err, common.ErrInvalidView)
}

func TestStartCookingWithoutInstructions(t *testing.T) {
	ctx := context.Background()
	recipes := &fakeRecipes{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "Toast"}},
		detail:      &common.DetailedRecipe{RecipeSummary: common.RecipeSummary{ID: "r1", Title: "Toast"}},
	}
	c := newTestController(t, recipes, "Bread")
	_, err := c.FindRecipes(ctx)
	require.NoError(t, err)
	_, err = c.SelectRecipe(ctx, "r1")
	require.NoError(t, err)

	snapshot, err := c.StartCooking()
	assert.ErrorIs(t, err, common.ErrInvalidView)
	assert.Equal(t, ViewRecipeDetail, snapshot.View)
}

func TestNavigate(t *testing.T) {
	ctx := context.Background()
	recipes := &fakeRecipes{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "Omelette"}},
		detail:      omelette(),
	}
	c := newTestController(t, recipes, "Eggs")

	_, err := c.Navigate(ViewDiscover)
	assert.ErrorIs(t, err, common.ErrInvalidView)
	_, err = c.Navigate(ViewRecipeDetail)
	assert.ErrorIs(t, err, common.ErrNoRecipeSelected)
	_, err = c.Navigate(View("SETTINGS"))
	assert.ErrorIs(t, err, common.ErrInvalidView)

	_, err = c.FindRecipes(ctx)
	require.NoError(t, err)
	_, err = c.SelectRecipe(ctx, "r1")
	require.NoError(t, err)

	snapshot, err := c.Navigate(ViewDiscover)
	require.NoError(t, err)
	assert.Equal(t, ViewDiscover, snapshot.View)

	snapshot, err = c.Navigate(ViewCookingMode)
	require.NoError(t, err)
	assert.Equal(t, ViewCookingMode, snapshot.View)

	snapshot, err = c.Navigate(ViewPantry)
	require.NoError(t, err)
	assert.Equal(t, ViewPantry, snapshot.View)
	assert.NotNil(t, snapshot.SelectedRecipe)
}

func TestRecipeImage(t *testing.T) {
	ctx := context.Background()
	recipes := &fakeRecipes{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "Omelette"}},
		detail:      omelette(),
		image:       "data:image/png;base64,AAAA",
	}
	c := newTestController(t, recipes, "Eggs")

	_, _, err := c.RecipeImage(ctx)
	assert.ErrorIs(t, err, common.ErrNoRecipeSelected)

	_, err = c.FindRecipes(ctx)
	require.NoError(t, err)
	_, err = c.SelectRecipe(ctx, "r1")
	require.NoError(t, err)

	uri, ok, err := c.RecipeImage(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AAAA", uri)
}

func TestParseView(t *testing.T) {
	v, ok := ParseView("COOKING_MODE")
	assert.True(t, ok)
	assert.Equal(t, ViewCookingMode, v)

	_, ok = ParseView("cooking_mode")
	assert.False(t, ok)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 50.0, Progress(0, 2))
	assert.Equal(t, 0.0, Progress(0, 0))
}
