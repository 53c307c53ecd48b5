package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"heartsignal_web/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	wsManager   *service.WebSocketManager
	roomService *service.RoomService
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsManager *service.WebSocketManager, roomService *service.RoomService) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		roomService: roomService,
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	// 從上下文中獲取用戶 ID
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDUint := userID.(uint)

	// 確認用戶是房間內的參加者
	participants, err := h.roomService.GetParticipants(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	nickname := ""
	for i := range participants {
		if participants[i].UserID == userIDUint {
			nickname = participants[i].Nickname
			break
		}
	}
	if nickname == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "用戶未加入此房間"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	// 創建客戶端並處理連接，阻塞直到連接關閉
	client := &service.Client{
		Conn:     conn,
		UserID:   userIDUint,
		RoomID:   roomID,
		Nickname: nickname,
	}

	// 連線期間視為在席，斷線後標記為暫離
	if err := h.roomService.UpdatePresence(roomID, userIDUint, true); err != nil {
		log.Printf("presence update error: %v", err)
	}
	h.wsManager.HandleClient(client)
	if err := h.roomService.UpdatePresence(roomID, userIDUint, false); err != nil {
		log.Printf("presence update error: %v", err)
	}
}
