package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heartsignal_web/internal/service"
)

// RoundHandler 處理與回合相關的請求
type RoundHandler struct {
	roundService *service.RoundService
}

// NewRoundHandler 創建一個新的 RoundHandler 實例
func NewRoundHandler(roundService *service.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

// StartRound 處理啟動回合的請求（僅房主）
func (h *RoundHandler) StartRound(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	var input struct {
		RoundNumber int `json:"round_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uint)
	round, err := h.roundService.StartRound(roomID, input.RoundNumber, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, round)
}

// StartSelectionTime 將回合推進到指名階段（僅房主）
func (h *RoundHandler) StartSelectionTime(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	userID := c.MustGet("userID").(uint)
	round, err := h.roundService.StartSelectionTime(roomID, roundID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

// EndRound 處理結束回合的請求（僅房主）
func (h *RoundHandler) EndRound(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	userID := c.MustGet("userID").(uint)
	round, err := h.roundService.EndRound(roundID, roomID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

// PauseRound 暫停回合計時（僅房主）
func (h *RoundHandler) PauseRound(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	userID := c.MustGet("userID").(uint)
	round, err := h.roundService.PauseRound(roomID, roundID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

// ResumeRound 恢復回合計時（僅房主）
func (h *RoundHandler) ResumeRound(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	userID := c.MustGet("userID").(uint)
	round, err := h.roundService.ResumeRound(roomID, roundID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

// SyncPhase 套用計時器到期後應該發生的階段轉移，任何輪詢中的客戶端都可以呼叫
func (h *RoundHandler) SyncPhase(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	round, err := h.roundService.SyncPhase(roomID, roundID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

// GetTimer 讀取回合計時器的剩餘時間與狀態
func (h *RoundHandler) GetTimer(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	snapshot, err := h.roundService.GetTimer(roomID, roundID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetRounds 查詢房間內所有回合
func (h *RoundHandler) GetRounds(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	rounds, err := h.roundService.GetRounds(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rounds)
}

// parseRoomRound 解析路徑中的房間與回合 ID
func parseRoomRound(c *gin.Context) (uint, uint, bool) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return 0, 0, false
	}
	roundID, err := parseID(c, "roundId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的回合ID"})
		return 0, 0, false
	}
	return roomID, roundID, true
}
