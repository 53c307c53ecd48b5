package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/service"
)

// RoomHandler 處理與遊戲房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
	wsManager   *service.WebSocketManager
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService, wsManager *service.WebSocketManager) *RoomHandler {
	return &RoomHandler{roomService: roomService, wsManager: wsManager}
}

// CreateRoom 處理創建新房間的請求，創建者自動成為房主
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		MaxParticipants int           `json:"max_participants" binding:"required"`
		TotalRounds     int           `json:"total_rounds" binding:"required"`
		Nickname        string        `json:"nickname" binding:"required"`
		Gender          models.Gender `json:"gender" binding:"required,oneof=male female other"`
		MBTI            string        `json:"mbti"`
		Character       string        `json:"character" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uint)
	room, participant, err := h.roomService.CreateRoom(userID, input.MaxParticipants, input.TotalRounds,
		service.JoinRoomInput{
			Nickname:  input.Nickname,
			Gender:    input.Gender,
			MBTI:      input.MBTI,
			Character: input.Character,
		})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room, "participant": participant})
}

// GetRoom 處理獲取房間訊息的請求，一併回傳參加者列表
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	participants, err := h.roomService.GetParticipants(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "participants": participants})
}

// GetRoomByCode 以加入代碼查詢房間
func (h *RoomHandler) GetRoomByCode(c *gin.Context) {
	room, err := h.roomService.GetRoomByCode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ListRooms 獲取房間列表
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢房間列表"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// JoinRoom 處理以代碼加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input struct {
		Code      string        `json:"code" binding:"required"`
		Nickname  string        `json:"nickname" binding:"required"`
		Gender    models.Gender `json:"gender" binding:"required,oneof=male female other"`
		MBTI      string        `json:"mbti"`
		Character string        `json:"character" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uint)
	room, participant, err := h.roomService.JoinRoom(input.Code, userID, service.JoinRoomInput{
		Nickname:  input.Nickname,
		Gender:    input.Gender,
		MBTI:      input.MBTI,
		Character: input.Character,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "participant": participant})
}

// LeaveRoom 處理離開房間的請求
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID := c.MustGet("userID").(uint)
	if err := h.roomService.LeaveRoom(roomID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功離開房間"})
}

// SetReady 切換準備狀態
func (h *RoomHandler) SetReady(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	var input struct {
		Ready *bool `json:"ready" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uint)
	participant, err := h.roomService.SetReady(roomID, userID, *input.Ready)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participant)
}

// StartGame 處理開始遊戲的請求
func (h *RoomHandler) StartGame(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID := c.MustGet("userID").(uint)
	room, err := h.roomService.StartGame(roomID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// CancelRoom 處理取消房間的請求
func (h *RoomHandler) CancelRoom(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID := c.MustGet("userID").(uint)
	if err := h.roomService.CancelRoom(roomID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "房間已取消"})
}

// TransferHost 處理移交房主的請求
func (h *RoomHandler) TransferHost(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	var input struct {
		ParticipantID uint `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uint)
	if err := h.roomService.TransferHost(roomID, userID, input.ParticipantID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "房主已移交"})
}

// GetMessages 查詢房間的歷史消息
func (h *RoomHandler) GetMessages(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	messages, err := h.wsManager.GetRoomMessages(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢房間消息"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// parseID 解析路徑中的數字 ID
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
