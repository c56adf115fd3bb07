package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/cardwish/app/gacha/internal/catalog"
	"github.com/lk2023060901/cardwish/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/lk2023060901/cardwish/pkg/web"
	"github.com/lk2023060901/cardwish/pkg/web/middleware"
)

// CatalogHandler 目录与收藏只读接口
type CatalogHandler struct {
	logger  logger.Logger
	tables  *gameconfig.Tables
	catalog *catalog.Catalog
	repo    repository.PlayerRepository
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(l logger.Logger, tables *gameconfig.Tables, cat *catalog.Catalog, repo repository.PlayerRepository) *CatalogHandler {
	return &CatalogHandler{
		logger:  l.Named("handler.catalog"),
		tables:  tables,
		catalog: cat,
		repo:    repo,
	}
}

// Register 注册路由
func (h *CatalogHandler) Register(api *gin.RouterGroup) {
	api.GET("/cards/collection", h.Collection)
	api.GET("/cards/:id", h.Card)
	api.GET("/packs", h.Packs)
}

// Card 单卡查询接口
func (h *CatalogHandler) Card(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		web.Error(c, http.StatusBadRequest, codeValidation, "invalid card id")
		return
	}

	card, ok := h.catalog.GetByID(int32(id))
	if !ok {
		web.Error(c, http.StatusNotFound, codeValidation, "card not found")
		return
	}
	web.Success(c, card)
}

// PackSummary 卡池对外摘要
type PackSummary struct {
	Name             string             `json:"name"`
	MaxBatch         int32              `json:"maxBatch"`
	Weights          map[string]float64 `json:"weights"`
	QualifyingRarity string             `json:"qualifyingRarity"`
	PityThreshold    int32              `json:"pityThreshold"`
}

// Packs 卡池列表接口
func (h *CatalogHandler) Packs(c *gin.Context) {
	packs := make([]PackSummary, 0, len(h.tables.Packs))
	for _, p := range h.tables.Packs {
		weights := make(map[string]float64, len(p.Weights))
		for r, w := range p.Weights {
			weights[r.String()] = w
		}
		packs = append(packs, PackSummary{
			Name:             p.Name,
			MaxBatch:         p.MaxBatch,
			Weights:          weights,
			QualifyingRarity: p.QualifyingRarity.String(),
			PityThreshold:    p.PityThreshold,
		})
	}
	web.Success(c, packs)
}

// Collection 玩家收藏查询接口
func (h *CatalogHandler) Collection(c *gin.Context) {
	playerID := middleware.PlayerIDFromContext(c)

	collection, err := h.repo.GetCollection(c.Request.Context(), playerID)
	if err != nil {
		writeError(c, err)
		return
	}
	web.Success(c, collection)
}
