package models

import (
	"time"

	"gorm.io/gorm"
)

// Message 代表一個統一的消息結構，同時滿足 WebSocket 和數據庫存儲需求
type Message struct {
	gorm.Model
	Type      string    `json:"type" gorm:"type:varchar(50)"`
	Content   string    `json:"content" gorm:"type:text"`
	UserID    uint      `json:"user_id"`
	RoomID    uint      `json:"room_id"`
	Timestamp time.Time `json:"timestamp"`
	// 可選字段，用於存儲事件附帶的 JSON 數據
	ExtraData string `json:"extra_data,omitempty" gorm:"type:jsonb"`
}

// 消息類型
const (
	MessageTypeChat          = "chat"
	MessageTypeSystem        = "system"
	MessageTypeRoundStarted  = "round_started"
	MessageTypePhaseChanged  = "phase_changed"
	MessageTypeTimerWarning  = "timer_warning"
	MessageTypeRoundComplete = "round_completed"
	MessageTypeGameComplete  = "game_completed"
)

// NewChatMessage 創建一條新的聊天消息
func NewChatMessage(userID, roomID uint, content string) Message {
	return Message{
		Type:      MessageTypeChat,
		Content:   content,
		UserID:    userID,
		RoomID:    roomID,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage 創建一條新的系統消息
func NewSystemMessage(roomID uint, content string) Message {
	return Message{
		Type:      MessageTypeSystem,
		Content:   content,
		RoomID:    roomID,
		Timestamp: time.Now(),
	}
}

// NewEventMessage 創建一條帶有 JSON 附加數據的遊戲事件消息
func NewEventMessage(roomID uint, msgType, content, extraData string) Message {
	return Message{
		Type:      msgType,
		Content:   content,
		RoomID:    roomID,
		Timestamp: time.Now(),
		ExtraData: extraData,
	}
}
