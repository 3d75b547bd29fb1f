package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/core/view"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway 固定回應的食譜閘道
type stubGateway struct {
	suggestions []common.RecipeSummary
	detail      *common.DetailedRecipe
	detailErr   error
	image       string
	lastInput   []string
}

func (s *stubGateway) SuggestRecipes(ctx context.Context, descriptors []string) []common.RecipeSummary {
	s.lastInput = descriptors
	return s.suggestions
}

func (s *stubGateway) GetDetailedRecipe(ctx context.Context, title string, pantryNames []string) (*common.DetailedRecipe, error) {
	return s.detail, s.detailErr
}

func (s *stubGateway) GenerateRecipeImage(ctx context.Context, title string) (string, bool) {
	return s.image, s.image != ""
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Debug: true, Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1024,
		},
		AI:    config.AIConfig{Provider: config.ProviderGemini},
		Cache: config.CacheConfig{Backend: config.BackendMemory, Prefix: "smartpantry_v1_"},
	}
}

func newTestRouter(t *testing.T, gw *stubGateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := cache.NewManager(0)
	p := pantry.New(backend, pantry.DefaultStorageKey)
	require.NoError(t, p.Load(context.Background()))

	return SetupRouter(testConfig(), Services{
		Backend:    backend,
		Pantry:     p,
		Recipes:    gw,
		Controller: view.NewController(p, gw),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func sampleDetail() *common.DetailedRecipe {
	return &common.DetailedRecipe{
		RecipeSummary: common.RecipeSummary{ID: "r1", Title: "French Toast"},
		Ingredients: []common.RecipeIngredient{
			{Name: "eggs", Amount: "2", IsPantryItem: true},
			{Name: "cinnamon", Amount: "1 tsp", IsPantryItem: false},
		},
		Instructions: []common.Instruction{
			{Step: 1, Text: "Whisk eggs"},
			{Step: 2, Text: "Dip bread"},
			{Step: 3, Text: "Fry"},
		},
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t, &stubGateway{})

	w := do(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	decode(t, w, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, config.BackendMemory, health["cache"])
	assert.Contains(t, health, "cache_stats")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")

	w = do(t, r, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPantryRoutes(t *testing.T) {
	r := newTestRouter(t, &stubGateway{})

	w := do(t, r, http.MethodPost, "/api/v1/pantry", `{"input":"3 large eggs"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var item common.Ingredient
	decode(t, w, &item)
	assert.Equal(t, "eggs", item.Name)
	assert.Equal(t, "3 large", item.Amount)
	require.NotEmpty(t, item.ID)

	w = do(t, r, http.MethodPost, "/api/v1/pantry/quick", `{"items":["Milk","Butter"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/pantry", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []common.Ingredient `json:"items"`
	}
	decode(t, w, &list)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "eggs", list.Items[0].Name)

	w = do(t, r, http.MethodDelete, "/api/v1/pantry/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodDelete, "/api/v1/pantry/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/api/v1/pantry", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/pantry", "")
	decode(t, w, &list)
	assert.Empty(t, list.Items)
}

func TestPantryRejectsInvalidInput(t *testing.T) {
	r := newTestRouter(t, &stubGateway{})

	w := do(t, r, http.MethodPost, "/api/v1/pantry", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body common.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, common.ErrCodeInvalidRequest, body.Code)

	w = do(t, r, http.MethodPost, "/api/v1/pantry", `{"input":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBodySizeLimit(t *testing.T) {
	r := newTestRouter(t, &stubGateway{})

	big := `{"input":"` + strings.Repeat("a", 2048) + `"}`
	w := do(t, r, http.MethodPost, "/api/v1/pantry", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRecipeRoutes(t *testing.T) {
	gw := &stubGateway{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "French Toast"}},
		detail:      sampleDetail(),
	}
	r := newTestRouter(t, gw)

	w := do(t, r, http.MethodPost, "/api/v1/recipe/suggest", `{"ingredients":["2 eggs"," Milk"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2 eggs", " Milk"}, gw.lastInput)
	assert.Contains(t, w.Body.String(), "French Toast")

	w = do(t, r, http.MethodPost, "/api/v1/recipe/suggest", `{"ingredients":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/recipe/detail", `{"title":"French Toast","ingredients":["eggs"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Recipe             common.DetailedRecipe     `json:"recipe"`
		MissingIngredients []common.RecipeIngredient `json:"missingIngredients"`
	}
	decode(t, w, &detail)
	assert.Equal(t, "French Toast", detail.Recipe.Title)
	require.Len(t, detail.MissingIngredients, 1)
	assert.Equal(t, "cinnamon", detail.MissingIngredients[0].Name)

	w = do(t, r, http.MethodPost, "/api/v1/recipe/image", `{"title":"French Toast"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":false}`, w.Body.String())
}

func TestRecipeDetailModelError(t *testing.T) {
	gw := &stubGateway{detailErr: common.ErrInvalidModelOutput}
	r := newTestRouter(t, gw)

	w := do(t, r, http.MethodPost, "/api/v1/recipe/detail", `{"title":"French Toast"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	var body common.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "INVALID_MODEL_OUTPUT", body.Code)
}

func TestDiscoverWithEmptyPantry(t *testing.T) {
	r := newTestRouter(t, &stubGateway{})

	w := do(t, r, http.MethodPost, "/api/v1/view/discover", "")
	require.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Code  string        `json:"code"`
		State view.Snapshot `json:"state"`
	}
	decode(t, w, &body)
	assert.Equal(t, "EMPTY_PANTRY", body.Code)
	assert.Equal(t, view.ViewPantry, body.State.View)
}

func TestCookingFlow(t *testing.T) {
	gw := &stubGateway{
		suggestions: []common.RecipeSummary{{ID: "r1", Title: "French Toast"}},
		detail:      sampleDetail(),
		image:       "data:image/png;base64,AAAA",
	}
	r := newTestRouter(t, gw)

	w := do(t, r, http.MethodPost, "/api/v1/pantry", `{"input":"2 eggs"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var state view.Snapshot
	w = do(t, r, http.MethodPost, "/api/v1/view/discover", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &state)
	assert.Equal(t, view.ViewDiscover, state.View)
	require.Len(t, state.Suggestions, 1)
	assert.Equal(t, []string{"2 eggs 2 eggs"}, gw.lastInput)

	w = do(t, r, http.MethodPost, "/api/v1/view/select", `{"id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/view/select", `{"id":"r1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &state)
	assert.Equal(t, view.ViewRecipeDetail, state.View)

	w = do(t, r, http.MethodGet, "/api/v1/view/image", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":true`)

	w = do(t, r, http.MethodPost, "/api/v1/cook/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &state)
	assert.Equal(t, view.ViewCookingMode, state.View)
	require.NotNil(t, state.Cooking)
	assert.Equal(t, 0, state.Cooking.Step)

	w = do(t, r, http.MethodPost, "/api/v1/cook/next", "")
	decode(t, w, &state)
	assert.Equal(t, 1, state.Cooking.Step)

	w = do(t, r, http.MethodPost, "/api/v1/cook/prev", "")
	decode(t, w, &state)
	assert.Equal(t, 0, state.Cooking.Step)

	w = do(t, r, http.MethodPost, "/api/v1/cook/finish", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &state)
	assert.Equal(t, view.ViewRecipeDetail, state.View)

	w = do(t, r, http.MethodPost, "/api/v1/cook/next", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestNavigateRoutes(t *testing.T) {
	r := newTestRouter(t, &stubGateway{})

	w := do(t, r, http.MethodPost, "/api/v1/view/navigate", `{"view":"BOGUS"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/view/navigate", `{"view":"RECIPE_DETAIL"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/view/navigate", `{"view":"PANTRY"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	var state view.Snapshot
	decode(t, w, &state)
	assert.Equal(t, view.ViewPantry, state.View)
	assert.False(t, state.Loading)
}
