package service

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
)

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn      // WebSocket 連接
	UserID   uint                 // 用戶 ID
	RoomID   uint                 // 房間 ID
	Nickname string               // 參加者暱稱
	SendChan chan *models.Message // 消息發送通道，用於異步傳送消息
}

// WebSocketManager 管理所有的 WebSocket 連接和消息傳遞
// 聊天消息會持久化，遊戲事件（回合開始、階段切換、計時警告、配對結果）
// 以帶附加數據的消息廣播給房間內所有客戶端
type WebSocketManager struct {
	clients     map[uint]map[*Client]bool // 兩層 map: roomID -> client -> bool
	clientsMux  sync.RWMutex              // 用於保護 clients map 的讀寫鎖
	messageRepo repository.MessageRepository
}

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager(messageRepo repository.MessageRepository) *WebSocketManager {
	return &WebSocketManager{
		clients:     make(map[uint]map[*Client]bool),
		messageRepo: messageRepo,
	}
}

// HandleClient 處理新的 WebSocket 客戶端，阻塞直到連接關閉
func (m *WebSocketManager) HandleClient(client *Client) {
	client.SendChan = make(chan *models.Message, 256) // 設置緩衝大小為 256 的消息通道

	m.addClient(client)

	// 確保連接關閉時清理資源
	// SendChan 不關閉：廣播方可能已在讀鎖下快照了客戶端集合，
	// 晚到的訊息必須能安全落入通道；writePump 隨連接關閉自行結束
	defer func() {
		m.removeClient(client)
		client.Conn.Close()
	}()

	// 啟動讀寫處理
	go m.writePump(client)
	m.readPump(client)
}

// readPump 持續監聽並處理從客戶端接收的聊天消息
func (m *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096) // 設置最大消息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		// 解析接收到的消息，客戶端只能發送聊天內容
		var incoming struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(data, &incoming); err != nil {
			log.Printf("message parse error: %v", err)
			continue
		}

		msg := models.NewChatMessage(client.UserID, client.RoomID, incoming.Content)
		if err := m.messageRepo.Create(&msg); err != nil {
			log.Printf("message persist error: %v", err)
		}

		// 廣播消息給房間內所有用戶
		m.BroadcastToRoom(client.RoomID, &msg)
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (m *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			// 設置寫入超時
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// 獲取寫入器並發送消息
			w, err := client.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			// JSON 編碼
			messageBytes, err := json.Marshal(message)
			if err != nil {
				log.Printf("message encoding error: %v", err)
				continue
			}

			if _, err := w.Write(messageBytes); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastToRoom 向房間內的所有客戶端廣播消息
func (m *WebSocketManager) BroadcastToRoom(roomID uint, message *models.Message) {
	m.clientsMux.RLock()
	clients := m.clients[roomID]
	m.clientsMux.RUnlock()

	for client := range clients {
		select {
		case client.SendChan <- message:
			// 消息成功加入發送隊列
		default:
			// 客戶端消息隊列已滿，關閉連接
			m.removeClient(client)
			client.Conn.Close()
		}
	}
}

// BroadcastSystemMessage 發送系統消息到指定房間
func (m *WebSocketManager) BroadcastSystemMessage(roomID uint, content string) {
	msg := models.NewSystemMessage(roomID, content)
	m.BroadcastToRoom(roomID, &msg)
}

// BroadcastEvent 發送帶有 JSON 附加數據的遊戲事件到指定房間
func (m *WebSocketManager) BroadcastEvent(roomID uint, msgType, content, extraData string) {
	msg := models.NewEventMessage(roomID, msgType, content, extraData)
	m.BroadcastToRoom(roomID, &msg)
}

// GetRoomMessages 查詢房間的歷史消息
func (m *WebSocketManager) GetRoomMessages(roomID uint) ([]models.Message, error) {
	return m.messageRepo.FindByRoomID(roomID)
}

// addClient 安全地添加新的客戶端連接
func (m *WebSocketManager) addClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[client.RoomID] == nil {
		m.clients[client.RoomID] = make(map[*Client]bool)
	}
	m.clients[client.RoomID][client] = true

	// 發送用戶加入通知
	m.broadcastSystemLocked(client.RoomID,
		fmt.Sprintf("%s 已連線", client.Nickname))
}

// broadcastSystemLocked 在已持有鎖時廣播系統消息，避免與 addClient 重入鎖
func (m *WebSocketManager) broadcastSystemLocked(roomID uint, content string) {
	msg := models.NewSystemMessage(roomID, content)
	for client := range m.clients[roomID] {
		select {
		case client.SendChan <- &msg:
		default:
		}
	}
}

// removeClient 安全地移除客戶端連接
func (m *WebSocketManager) removeClient(client *Client) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if clients, ok := m.clients[client.RoomID]; ok {
		delete(clients, client)
		// 如果房間空了，刪除房間
		if len(clients) == 0 {
			delete(m.clients, client.RoomID)
		}
	}
}

// GetRoomClients 獲取指定房間的在線客戶端數量
func (m *WebSocketManager) GetRoomClients(roomID uint) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	return len(m.clients[roomID])
}
