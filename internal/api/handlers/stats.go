package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heartsignal_web/internal/service"
)

// StatsHandler 處理最終結果統計的請求
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler 創建一個新的 StatsHandler 實例
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetFinalResults 查詢房間的最終統計：人氣榜、配對榜、回合摘要與性別配對情況
func (h *StatsHandler) GetFinalResults(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	results, err := h.statsService.GetFinalResults(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
