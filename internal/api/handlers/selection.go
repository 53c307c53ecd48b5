package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"heartsignal_web/internal/service"
)

// SelectionHandler 處理指名與配對相關的請求
type SelectionHandler struct {
	selectionService *service.SelectionService
	matchService     *service.MatchService
	roomService      *service.RoomService
}

// NewSelectionHandler 創建一個新的 SelectionHandler 實例
func NewSelectionHandler(
	selectionService *service.SelectionService,
	matchService *service.MatchService,
	roomService *service.RoomService,
) *SelectionHandler {
	return &SelectionHandler{
		selectionService: selectionService,
		matchService:     matchService,
		roomService:      roomService,
	}
}

// selectionInput 定義提交指名的請求結構
type selectionInput struct {
	SelectedID *uint  `json:"selected_id"`
	Message    string `json:"message"`
	IsPassed   bool   `json:"is_passed"`
}

// Submit 提交本回合的指名或棄權
func (h *SelectionHandler) Submit(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	var input selectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, ok := h.resolveParticipant(c, roomID)
	if !ok {
		return
	}

	selection, err := h.selectionService.Submit(roundID, participant, service.SelectionInput{
		SelectedID: input.SelectedID,
		Message:    input.Message,
		IsPassed:   input.IsPassed,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, selection)
}

// Update 在回合結束前更正已提交的指名
func (h *SelectionHandler) Update(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	var input selectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participant, ok := h.resolveParticipant(c, roomID)
	if !ok {
		return
	}

	selection, err := h.selectionService.Update(roundID, participant, service.SelectionInput{
		SelectedID: input.SelectedID,
		Message:    input.Message,
		IsPassed:   input.IsPassed,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, selection)
}

// GetRoundSelections 查詢回合內所有指名（僅房主，指名對其他參加者保密）
func (h *SelectionHandler) GetRoundSelections(c *gin.Context) {
	roomID, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	userID := c.MustGet("userID").(uint)
	if !h.roomService.IsHost(roomID, userID) {
		respondServiceError(c, service.ErrNotHost)
		return
	}

	selections, err := h.selectionService.GetRoundSelections(roundID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, selections)
}

// ValidateDetection 檢查回合是否已收齊所有參加者的指名
func (h *SelectionHandler) ValidateDetection(c *gin.Context) {
	_, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	report, err := h.matchService.ValidateMatchDetection(roundID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// DetectMatches 執行配對偵測（可重複呼叫，不會產生重複配對）
func (h *SelectionHandler) DetectMatches(c *gin.Context) {
	_, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	matches, err := h.matchService.DetectMatches(roundID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetRoundMatches 查詢回合產生的配對
func (h *SelectionHandler) GetRoundMatches(c *gin.Context) {
	_, roundID, ok := parseRoomRound(c)
	if !ok {
		return
	}

	matches, err := h.matchService.GetRoundMatches(roundID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// resolveParticipant 將 JWT 用戶解析成房間內的參加者 ID
func (h *SelectionHandler) resolveParticipant(c *gin.Context, roomID uint) (uint, bool) {
	userID := c.MustGet("userID").(uint)

	participants, err := h.roomService.GetParticipants(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, service.ErrRoomNotFound)
		} else {
			respondServiceError(c, err)
		}
		return 0, false
	}

	for i := range participants {
		if participants[i].UserID == userID {
			return participants[i].ID, true
		}
	}

	respondServiceError(c, service.ErrParticipantNotFound)
	return 0, false
}
