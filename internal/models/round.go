package models

import (
	"time"

	"gorm.io/gorm"
)

// Round 表示房間內的一個回合
// (RoomID, RoundNumber) 的唯一索引保證同一回合編號只會被建立一次，
// 併發啟動回合時以資料庫約束作為最終裁決
type Round struct {
	gorm.Model
	RoomID      uint        `gorm:"not null;uniqueIndex:idx_rounds_room_number,priority:1" json:"room_id"`
	RoundNumber int         `gorm:"not null;uniqueIndex:idx_rounds_room_number,priority:2" json:"round_number"`
	QuestionID  uint        `json:"question_id"`
	Status      RoundStatus `gorm:"size:20;not null" json:"status"`
	StartedAt   *time.Time  `json:"started_at"`
	EndedAt     *time.Time  `json:"ended_at"`

	// 計時器的錨點欄位，持久化在回合上，
	// 任何一個程序都能由此無狀態地重新計算剩餘時間
	FreeTimeStartedAt      *time.Time    `json:"free_time_started_at"`
	SelectionTimeStartedAt *time.Time    `json:"selection_time_started_at"`
	FreeTimeDuration       int           `json:"free_time_duration"`      // 秒
	SelectionTimeDuration  int           `json:"selection_time_duration"` // 秒
	PausedAt               *time.Time    `json:"paused_at"`
	TotalPaused            time.Duration `json:"total_paused"` // 累計暫停時間

	Selections []Selection `gorm:"foreignKey:RoundID" json:"-"`
}

// RoundStatus 定義回合狀態的類型
type RoundStatus string

const (
	RoundStatusPending       RoundStatus = "pending"
	RoundStatusFreeTime      RoundStatus = "free_time"
	RoundStatusSelectionTime RoundStatus = "selection_time"
	RoundStatusCompleted     RoundStatus = "completed"
)

// RoundPhase 定義回合中兩個計時階段的類型
type RoundPhase string

const (
	PhaseFreeTime      RoundPhase = "free_time"
	PhaseSelectionTime RoundPhase = "selection_time"
)

// IsActive 回報回合是否處於進行中的階段
func (r *Round) IsActive() bool {
	return r.Status == RoundStatusFreeTime || r.Status == RoundStatusSelectionTime
}

// CurrentPhase 回傳回合目前所處的計時階段；非進行中時回傳空值
func (r *Round) CurrentPhase() (RoundPhase, bool) {
	switch r.Status {
	case RoundStatusFreeTime:
		return PhaseFreeTime, true
	case RoundStatusSelectionTime:
		return PhaseSelectionTime, true
	default:
		return "", false
	}
}

// PhaseAnchor 回傳指定階段的開始時間與持續秒數
func (r *Round) PhaseAnchor(phase RoundPhase) (*time.Time, int) {
	if phase == PhaseSelectionTime {
		return r.SelectionTimeStartedAt, r.SelectionTimeDuration
	}
	return r.FreeTimeStartedAt, r.FreeTimeDuration
}
