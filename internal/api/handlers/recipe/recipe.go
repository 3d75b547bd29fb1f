package recipe

import (
	"context"
	"net/http"

	"smartpantry/internal/api/handlers"
	"smartpantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gateway 食譜閘道
type Gateway interface {
	SuggestRecipes(ctx context.Context, descriptors []string) []common.RecipeSummary
	GetDetailedRecipe(ctx context.Context, title string, pantryNames []string) (*common.DetailedRecipe, error)
	GenerateRecipeImage(ctx context.Context, title string) (string, bool)
}

// SuggestRequest 依食材描述推薦食譜
type SuggestRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
}

// SuggestResponse 推薦結果
type SuggestResponse struct {
	Recipes []common.RecipeSummary `json:"recipes"`
}

// DetailRequest 取得詳細食譜
type DetailRequest struct {
	Title       string   `json:"title" binding:"required"`
	Ingredients []string `json:"ingredients"`
}

// DetailResponse 詳細食譜與購物清單
type DetailResponse struct {
	Recipe             *common.DetailedRecipe    `json:"recipe"`
	MissingIngredients []common.RecipeIngredient `json:"missingIngredients"`
}

// ImageRequest 生成食譜圖片
type ImageRequest struct {
	Title string `json:"title" binding:"required"`
}

// ImageResponse 圖片結果，Available 為 false 時前端顯示預設圖
type ImageResponse struct {
	Image     string `json:"image,omitempty"`
	Available bool   `json:"available"`
}

// Handler 食譜處理程序
type Handler struct {
	gateway Gateway
}

// NewHandler 創建新的食譜處理程序
func NewHandler(gateway Gateway) *Handler {
	return &Handler{gateway: gateway}
}

// HandleSuggest 推薦食譜
func (h *Handler) HandleSuggest(c *gin.Context) {
	requestID := handlers.RequestID(c)
	common.LogInfo("開始處理食譜推薦請求", zap.String("request_id", requestID), zap.String("client_ip", c.ClientIP()))

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondInvalidRequest(c, err)
		return
	}

	recipes := h.gateway.SuggestRecipes(c.Request.Context(), req.Ingredients)

	common.LogInfo("食譜推薦完成",
		zap.String("request_id", requestID),
		zap.Int("count", len(recipes)),
	)
	c.JSON(http.StatusOK, SuggestResponse{Recipes: recipes})
}

// HandleDetail 取得詳細食譜
func (h *Handler) HandleDetail(c *gin.Context) {
	requestID := handlers.RequestID(c)

	var req DetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondInvalidRequest(c, err)
		return
	}

	detail, err := h.gateway.GetDetailedRecipe(c.Request.Context(), req.Title, req.Ingredients)
	if err != nil {
		handlers.RespondError(c, err, "Error loading recipe details.")
		return
	}

	common.LogInfo("詳細食譜生成成功",
		zap.String("request_id", requestID),
		zap.String("title", req.Title),
	)
	c.JSON(http.StatusOK, DetailResponse{
		Recipe:             detail,
		MissingIngredients: detail.MissingIngredients(),
	})
}

// HandleImage 生成食譜圖片
func (h *Handler) HandleImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondInvalidRequest(c, err)
		return
	}

	uri, ok := h.gateway.GenerateRecipeImage(c.Request.Context(), req.Title)
	c.JSON(http.StatusOK, ImageResponse{Image: uri, Available: ok})
}
