// Package view 管理畫面狀態：食材櫃、推薦、詳細食譜與烹飪模式之間的切換
package view

import (
	"context"
	"errors"
	"sync"

	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

// View 畫面
type View string

const (
	ViewPantry       View = "PANTRY"
	ViewDiscover     View = "DISCOVER"
	ViewRecipeDetail View = "RECIPE_DETAIL"
	ViewCookingMode  View = "COOKING_MODE"
)

// ErrLoadingDetails 載入詳細食譜失敗時呈現給使用者的訊息
const ErrLoadingDetails = "Error loading recipe details."

var errNoInstructions = errors.New("recipe has no instructions")

// ParseView 解析畫面名稱
func ParseView(s string) (View, bool) {
	switch v := View(s); v {
	case ViewPantry, ViewDiscover, ViewRecipeDetail, ViewCookingMode:
		return v, true
	default:
		return "", false
	}
}

// RecipeService 控制器使用的食譜閘道
type RecipeService interface {
	SuggestRecipes(ctx context.Context, descriptors []string) []common.RecipeSummary
	GetDetailedRecipe(ctx context.Context, title string, pantryNames []string) (*common.DetailedRecipe, error)
	GenerateRecipeImage(ctx context.Context, title string) (string, bool)
}

// PantrySource 控制器讀取的食材櫃
type PantrySource interface {
	List() []common.Ingredient
	Len() int
	Names() []string
	Descriptors() []string
}

// CookingState 烹飪模式進度
type CookingState struct {
	Step        int                `json:"step"`
	Total       int                `json:"total"`
	Progress    float64            `json:"progress"`
	Instruction common.Instruction `json:"instruction"`
	HasPrev     bool               `json:"hasPrev"`
	HasNext     bool               `json:"hasNext"`
}

// Snapshot 目前畫面狀態
type Snapshot struct {
	View               View                      `json:"view"`
	Pantry             []common.Ingredient       `json:"pantry"`
	Suggestions        []common.RecipeSummary    `json:"suggestions"`
	SelectedRecipe     *common.DetailedRecipe    `json:"selectedRecipe,omitempty"`
	MissingIngredients []common.RecipeIngredient `json:"missingIngredients,omitempty"`
	Loading            bool                      `json:"loading"`
	LastError          string                    `json:"lastError,omitempty"`
	Cooking            *CookingState             `json:"cooking,omitempty"`
}

// Controller 畫面狀態控制器。鎖只保護狀態，呼叫閘道時不持有。
type Controller struct {
	mu          sync.Mutex
	pantry      PantrySource
	recipes     RecipeService
	view        View
	suggestions []common.RecipeSummary
	selected    *common.DetailedRecipe
	loading     int
	lastError   string
	step        int
}

// NewController 創建控制器，初始畫面為食材櫃
func NewController(pantry PantrySource, recipes RecipeService) *Controller {
	return &Controller{
		pantry:      pantry,
		recipes:     recipes,
		view:        ViewPantry,
		suggestions: []common.RecipeSummary{},
	}
}

// Snapshot 取得目前狀態
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// FindRecipes 切換到推薦畫面並依食材櫃取得推薦；食材櫃為空時不做任何事
func (c *Controller) FindRecipes(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.pantry.Len() == 0 {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		return snapshot, common.ErrEmptyPantry
	}
	c.view = ViewDiscover
	c.loading++
	c.lastError = ""
	descriptors := c.pantry.Descriptors()
	c.mu.Unlock()

	results := c.recipes.SuggestRecipes(ctx, descriptors)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	c.suggestions = results
	common.LogInfo("推薦食譜已更新", zap.Int("數量", len(results)))
	return c.snapshotLocked(), nil
}

// SelectRecipe 載入推薦中的食譜詳細內容；失敗時畫面不變並記錄錯誤訊息
func (c *Controller) SelectRecipe(ctx context.Context, id string) (Snapshot, error) {
	c.mu.Lock()
	summary, ok := c.findSuggestionLocked(id)
	if !ok {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		return snapshot, common.ErrRecipeNotFound
	}
	c.loading++
	c.lastError = ""
	names := c.pantry.Names()
	c.mu.Unlock()

	detail, err := c.recipes.GetDetailedRecipe(ctx, summary.Title, names)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.lastError = ErrLoadingDetails
		common.LogError("載入詳細食譜失敗", zap.String("title", summary.Title), zap.Error(err))
		return c.snapshotLocked(), err
	}

	c.selected = detail
	c.step = 0
	c.view = ViewRecipeDetail
	return c.snapshotLocked(), nil
}

// RecipeImage 取得目前選擇食譜的圖片，失敗時回傳 false
func (c *Controller) RecipeImage(ctx context.Context) (string, bool, error) {
	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return "", false, common.ErrNoRecipeSelected
	}
	title := c.selected.Title
	c.mu.Unlock()

	uri, ok := c.recipes.GenerateRecipeImage(ctx, title)
	return uri, ok, nil
}

// Navigate 切換畫面
func (c *Controller) Navigate(view View) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch view {
	case ViewPantry:
		c.view = ViewPantry
	case ViewDiscover:
		// 只能從詳細食譜返回推薦，新的推薦需透過 FindRecipes
		if c.view != ViewDiscover && c.view != ViewRecipeDetail {
			return c.snapshotLocked(), common.ErrInvalidView
		}
		c.view = ViewDiscover
	case ViewRecipeDetail:
		if c.selected == nil {
			return c.snapshotLocked(), common.ErrNoRecipeSelected
		}
		c.view = ViewRecipeDetail
	case ViewCookingMode:
		if err := c.startCookingLocked(); err != nil {
			return c.snapshotLocked(), err
		}
	default:
		return c.snapshotLocked(), common.ErrInvalidView
	}
	return c.snapshotLocked(), nil
}

// StartCooking 從第一步開始烹飪模式
func (c *Controller) StartCooking() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.startCookingLocked(); err != nil {
		return c.snapshotLocked(), err
	}
	return c.snapshotLocked(), nil
}

// NextStep 下一步，最後一步時不變
func (c *Controller) NextStep() (Snapshot, error) {
	return c.moveStep(1)
}

// PrevStep 上一步，第一步時不變
func (c *Controller) PrevStep() (Snapshot, error) {
	return c.moveStep(-1)
}

// FinishCooking 結束烹飪模式並回到詳細食譜
func (c *Controller) FinishCooking() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewCookingMode {
		return c.snapshotLocked(), common.ErrInvalidView
	}
	c.view = ViewRecipeDetail
	c.step = 0
	return c.snapshotLocked(), nil
}

func (c *Controller) moveStep(delta int) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != ViewCookingMode || c.selected == nil {
		return c.snapshotLocked(), common.ErrInvalidView
	}

	step := c.step + delta
	total := len(c.selected.Instructions)
	if step < 0 {
		step = 0
	}
	if step > total-1 {
		step = total - 1
	}
	c.step = step
	return c.snapshotLocked(), nil
}

func (c *Controller) startCookingLocked() error {
	if c.selected == nil {
		return common.ErrNoRecipeSelected
	}
	if len(c.selected.Instructions) == 0 {
		return common.ErrInvalidView.Wrap(errNoInstructions)
	}
	c.view = ViewCookingMode
	c.step = 0
	return nil
}

func (c *Controller) findSuggestionLocked(id string) (common.RecipeSummary, bool) {
	for _, s := range c.suggestions {
		if s.ID == id {
			return s, true
		}
	}
	return common.RecipeSummary{}, false
}

func (c *Controller) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		View:        c.view,
		Pantry:      c.pantry.List(),
		Suggestions: append([]common.RecipeSummary{}, c.suggestions...),
		Loading:     c.loading > 0,
		LastError:   c.lastError,
	}

	if c.selected != nil {
		snapshot.SelectedRecipe = c.selected
		snapshot.MissingIngredients = c.selected.MissingIngredients()
	}

	if c.view == ViewCookingMode && c.selected != nil {
		total := len(c.selected.Instructions)
		snapshot.Cooking = &CookingState{
			Step:        c.step,
			Total:       total,
			Progress:    Progress(c.step, total),
			Instruction: c.selected.Instructions[c.step],
			HasPrev:     c.step > 0,
			HasNext:     c.step < total-1,
		}
	}

	return snapshot
}

// Progress 烹飪進度百分比 (step+1)/total*100
func Progress(step, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(step+1) / float64(total) * 100
}
