package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/cardwish/app/gacha/internal/model"
	"github.com/lk2023060901/cardwish/app/gacha/internal/service"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/lk2023060901/cardwish/pkg/web"
	"github.com/lk2023060901/cardwish/pkg/web/middleware"
)

// RollHandler 抽卡接口处理器
type RollHandler struct {
	logger  logger.Logger
	rollSvc *service.RollService
}

// NewRollHandler 创建抽卡处理器
func NewRollHandler(l logger.Logger, rollSvc *service.RollService) *RollHandler {
	return &RollHandler{
		logger:  l.Named("handler.roll"),
		rollSvc: rollSvc,
	}
}

// Register 注册路由
func (h *RollHandler) Register(api *gin.RouterGroup) {
	api.POST("/cards/roll", h.Roll)
	api.GET("/cards/pity", h.Pity)
}

// RollRequest 抽卡请求
type RollRequest struct {
	PackType string `json:"packType" binding:"required"`
	Count    int32  `json:"count" binding:"required"`
}

// RolledCardView 单张出卡的对外形态
type RolledCardView struct {
	ID     int32  `json:"id"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Forced bool   `json:"forced"`
}

// RollResponse 抽卡响应
type RollResponse struct {
	Cards       []RolledCardView `json:"cards"`
	PackType    string           `json:"packType"`
	Count       int              `json:"count"`
	PityCounter int32            `json:"pityCounter"`
}

// Roll 抽卡接口
func (h *RollHandler) Roll(c *gin.Context) {
	playerID := middleware.PlayerIDFromContext(c)

	var req RollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, codeValidation, "invalid request: "+err.Error())
		return
	}

	result, err := h.rollSvc.Roll(c.Request.Context(), playerID, req.PackType, req.Count)
	if err != nil && result == nil {
		h.logger.Warn("roll rejected", "player_id", playerID, "pack", req.PackType, "error", err)
		writeError(c, err)
		return
	}

	resp := toRollResponse(result)

	// 降级路径：结果已产出必须交付，用 503 告知调用方落库待补偿
	if err != nil && errors.Is(err, model.ErrTransient) {
		h.logger.Error("roll persisted with degradation", "player_id", playerID, "pack", req.PackType, "error", err)
		web.ErrorWithData(c, http.StatusServiceUnavailable, codeTransient, "roll delivered, persistence pending retry", resp)
		return
	}

	web.Success(c, resp)
}

// Pity 保底状态查询接口
func (h *RollHandler) Pity(c *gin.Context) {
	playerID := middleware.PlayerIDFromContext(c)

	states, err := h.rollSvc.PityStates(c.Request.Context(), playerID)
	if err != nil {
		writeError(c, err)
		return
	}
	web.Success(c, states)
}

func toRollResponse(result *model.RollResult) *RollResponse {
	cards := make([]RolledCardView, 0, len(result.Cards))
	for _, rc := range result.Cards {
		cards = append(cards, RolledCardView{
			ID:     rc.Card.ID,
			Name:   rc.Card.Name,
			Rarity: rc.Card.Rarity.String(),
			Forced: rc.Forced,
		})
	}
	return &RollResponse{
		Cards:       cards,
		PackType:    result.PackType,
		Count:       len(cards),
		PityCounter: result.PityCounter,
	}
}
