package pantry

import (
	"net/http"

	"smartpantry/internal/api/handlers"
	pantryService "smartpantry/internal/core/pantry"
	"smartpantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddRequest 加入食材，例如 "200g flour"
type AddRequest struct {
	Input string `json:"input" binding:"required"`
}

// QuickAddRequest 一次加入多項食材
type QuickAddRequest struct {
	Items []string `json:"items" binding:"required,min=1"`
}

// ListResponse 食材櫃內容
type ListResponse struct {
	Items      []common.Ingredient `json:"items"`
	Categories []string            `json:"categories"`
}

// Handler 食材櫃處理程序
type Handler struct {
	pantry *pantryService.Pantry
}

// NewHandler 創建食材櫃處理程序
func NewHandler(p *pantryService.Pantry) *Handler {
	return &Handler{pantry: p}
}

// HandleList 列出食材
func (h *Handler) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, h.list())
}

// HandleAdd 解析並加入一項食材
func (h *Handler) HandleAdd(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondInvalidRequest(c, err)
		return
	}

	item, err := h.pantry.Add(c.Request.Context(), req.Input)
	if err != nil {
		handlers.RespondError(c, err, "Failed to add ingredient")
		return
	}

	common.LogInfo("食材已加入",
		zap.String("request_id", handlers.RequestID(c)),
		zap.String("name", item.Name),
		zap.String("amount", item.Amount),
	)
	c.JSON(http.StatusCreated, item)
}

// HandleQuickAdd 加入多項常用食材
func (h *Handler) HandleQuickAdd(c *gin.Context) {
	var req QuickAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondInvalidRequest(c, err)
		return
	}

	added, err := h.pantry.QuickAdd(c.Request.Context(), req.Items...)
	if err != nil {
		handlers.RespondError(c, err, "Failed to add ingredients")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": added})
}

// HandleQuickItems 常用食材清單
func (h *Handler) HandleQuickItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": pantryService.QuickItems()})
}

// HandleRemove 移除一項食材
func (h *Handler) HandleRemove(c *gin.Context) {
	id := c.Param("id")
	if err := h.pantry.Remove(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err, "Ingredient not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleClear 清空食材櫃
func (h *Handler) HandleClear(c *gin.Context) {
	h.pantry.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handler) list() ListResponse {
	return ListResponse{
		Items:      h.pantry.List(),
		Categories: h.pantry.Categories(),
	}
}
