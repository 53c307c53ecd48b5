package models

import (
	"gorm.io/gorm"
)

// Room 表示一個心動訊號遊戲房間
type Room struct {
	gorm.Model
	Code            string     `gorm:"uniqueIndex;size:8;not null" json:"code"` // 房間加入代碼
	MaxParticipants int        `json:"max_participants"`
	TotalRounds     int        `json:"total_rounds"`
	HostID          *uint      `json:"host_id"` // 房主的參加者 ID，房主離開時可為空
	Status          RoomStatus `gorm:"size:20;not null" json:"status"`

	Rounds       []Round       `gorm:"foreignKey:RoomID" json:"-"`
	Participants []Participant `gorm:"foreignKey:RoomID" json:"-"`
	Matches      []Match       `gorm:"foreignKey:RoomID" json:"-"`
}

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"
	RoomStatusInProgress RoomStatus = "in_progress"
	RoomStatusCompleted  RoomStatus = "completed"
	RoomStatusCancelled  RoomStatus = "cancelled"
)

// CanJoin 回報房間是否仍然開放加入
func (r *Room) CanJoin() bool {
	return r.Status == RoomStatusWaiting
}

// IsFinished 回報房間是否已經結束（完成或取消）
func (r *Room) IsFinished() bool {
	return r.Status == RoomStatusCompleted || r.Status == RoomStatusCancelled
}
