package view

import (
	"errors"
	"net/http"

	"smartpantry/internal/api/handlers"
	viewService "smartpantry/internal/core/view"
	"smartpantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// NavigateRequest 切換畫面
type NavigateRequest struct {
	View string `json:"view" binding:"required"`
}

// SelectRequest 選擇推薦中的食譜
type SelectRequest struct {
	ID string `json:"id" binding:"required"`
}

// ErrorResponse 錯誤與目前狀態
type ErrorResponse struct {
	common.ErrorResponse
	State viewService.Snapshot `json:"state"`
}

// Handler 畫面狀態處理程序
type Handler struct {
	controller *viewService.Controller
}

// NewHandler 創建畫面狀態處理程序
func NewHandler(controller *viewService.Controller) *Handler {
	return &Handler{controller: controller}
}

// HandleState 目前狀態
func (h *Handler) HandleState(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Snapshot())
}

// HandleNavigate 切換畫面
func (h *Handler) HandleNavigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondInvalidRequest(c, err)
		return
	}

	v, ok := viewService.ParseView(req.View)
	if !ok {
		handlers.RespondInvalidRequest(c, errors.New("unknown view "+req.View))
		return
	}

	snapshot, err := h.controller.Navigate(v)
	h.respond(c, snapshot, err, "Invalid navigation")
}

// HandleDiscover 依食材櫃取得推薦
func (h *Handler) HandleDiscover(c *gin.Context) {
	snapshot, err := h.controller.FindRecipes(c.Request.Context())
	h.respond(c, snapshot, err, "Pantry is empty")
}

// HandleSelect 選擇食譜並載入詳細內容
func (h *Handler) HandleSelect(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondInvalidRequest(c, err)
		return
	}

	snapshot, err := h.controller.SelectRecipe(c.Request.Context(), req.ID)
	h.respond(c, snapshot, err, viewService.ErrLoadingDetails)
}

// HandleImage 目前食譜的圖片
func (h *Handler) HandleImage(c *gin.Context) {
	uri, ok, err := h.controller.RecipeImage(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err, "No recipe selected")
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": uri, "available": ok})
}

// HandleStartCooking 開始烹飪模式
func (h *Handler) HandleStartCooking(c *gin.Context) {
	snapshot, err := h.controller.StartCooking()
	h.respond(c, snapshot, err, "Cannot start cooking mode")
}

// HandleNextStep 下一步
func (h *Handler) HandleNextStep(c *gin.Context) {
	snapshot, err := h.controller.NextStep()
	h.respond(c, snapshot, err, "Not in cooking mode")
}

// HandlePrevStep 上一步
func (h *Handler) HandlePrevStep(c *gin.Context) {
	snapshot, err := h.controller.PrevStep()
	h.respond(c, snapshot, err, "Not in cooking mode")
}

// HandleFinishCooking 結束烹飪模式
func (h *Handler) HandleFinishCooking(c *gin.Context) {
	snapshot, err := h.controller.FinishCooking()
	h.respond(c, snapshot, err, "Not in cooking mode")
}

// respond 成功時回傳狀態；失敗時回傳錯誤並附帶未變更的狀態
func (h *Handler) respond(c *gin.Context, snapshot viewService.Snapshot, err error, message string) {
	if err == nil {
		c.JSON(http.StatusOK, snapshot)
		return
	}

	status, body := handlers.ErrorBody(c, err, message)
	c.AbortWithStatusJSON(status, ErrorResponse{ErrorResponse: body, State: snapshot})
}
