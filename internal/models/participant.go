package models

import (
	"gorm.io/gorm"
)

// Participant 表示房間內的一位參加者
// 暱稱與角色在同一個房間內不可重複
type Participant struct {
	gorm.Model
	RoomID    uint              `gorm:"not null;uniqueIndex:idx_participants_room_nickname,priority:1;uniqueIndex:idx_participants_room_character,priority:1" json:"room_id"`
	UserID    uint              `gorm:"not null" json:"user_id"`
	Nickname  string            `gorm:"size:30;not null;uniqueIndex:idx_participants_room_nickname,priority:2" json:"nickname"`
	Gender    Gender            `gorm:"size:10;not null" json:"gender"`
	MBTI      string            `gorm:"size:4" json:"mbti"`
	Character string            `gorm:"size:30;not null;uniqueIndex:idx_participants_room_character,priority:2" json:"character"`
	Status    ParticipantStatus `gorm:"size:20;not null" json:"status"`
}

// Gender 定義參加者性別的類型
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParticipantStatus 定義參加者狀態的類型
type ParticipantStatus string

const (
	ParticipantStatusJoined   ParticipantStatus = "joined"
	ParticipantStatusReady    ParticipantStatus = "ready"
	ParticipantStatusPlaying  ParticipantStatus = "playing"
	ParticipantStatusAway     ParticipantStatus = "temporarily_away"
	ParticipantStatusLeft     ParticipantStatus = "left"
	ParticipantStatusFinished ParticipantStatus = "finished"
)
