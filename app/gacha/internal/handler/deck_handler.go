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

// DeckHandler 卡组接口处理器
type DeckHandler struct {
	logger  logger.Logger
	deckSvc *service.DeckService
}

// NewDeckHandler 创建卡组处理器
func NewDeckHandler(l logger.Logger, deckSvc *service.DeckService) *DeckHandler {
	return &DeckHandler{
		logger:  l.Named("handler.deck"),
		deckSvc: deckSvc,
	}
}

// Register 注册路由
func (h *DeckHandler) Register(api *gin.RouterGroup) {
	api.POST("/decks/validate", h.Validate)
	api.PUT("/decks/active", h.SaveActive)
}

// DeckRequest 卡组请求，携带卡牌 ID 列表
type DeckRequest struct {
	Cards []int32 `json:"cards" binding:"required"`
}

// ValidateResponse 卡组校验响应
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Cost  int32  `json:"cost,omitempty"`
}

// Validate 卡组校验接口
// 校验失败属于正常业务结果，返回 200 并在 body 里说明类别
func (h *DeckHandler) Validate(c *gin.Context) {
	playerID := middleware.PlayerIDFromContext(c)

	var req DeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, codeValidation, "invalid request: "+err.Error())
		return
	}

	deck := &model.Deck{Cards: req.Cards}
	err := h.deckSvc.ValidateForPlayer(c.Request.Context(), playerID, deck)
	if err != nil {
		if kind := model.DeckErrorKindOf(err); kind != model.DeckErrorNone {
			web.Success(c, ValidateResponse{Valid: false, Error: string(kind)})
			return
		}
		writeError(c, err)
		return
	}

	web.Success(c, ValidateResponse{Valid: true, Cost: h.deckSvc.Cost(deck)})
}

// SaveActive 替换当前卡组接口
func (h *DeckHandler) SaveActive(c *gin.Context) {
	playerID := middleware.PlayerIDFromContext(c)

	var req DeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, codeValidation, "invalid request: "+err.Error())
		return
	}

	deck := &model.Deck{Cards: req.Cards}
	if err := h.deckSvc.SaveActive(c.Request.Context(), playerID, deck); err != nil {
		if errors.Is(err, model.ErrValidation) {
			if kind := model.DeckErrorKindOf(err); kind != model.DeckErrorNone {
				web.Error(c, http.StatusBadRequest, codeValidation, string(kind))
				return
			}
		}
		writeError(c, err)
		return
	}

	h.logger.Info("deck saved", "player_id", playerID, "size", deck.Size())
	web.Success(c, gin.H{"saved": true, "size": deck.Size()})
}
