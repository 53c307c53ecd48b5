package models

import (
	"gorm.io/gorm"
)

// Match 表示房間內一對互相指名成功的參加者
// 儲存時固定 Participant1ID < Participant2ID，
// 搭配 (RoomID, Participant1ID, Participant2ID) 唯一索引保證同一配對只會有一列
type Match struct {
	gorm.Model
	RoomID         uint `gorm:"not null;uniqueIndex:idx_matches_room_pair,priority:1" json:"room_id"`
	RoundID        uint `gorm:"not null" json:"round_id"`
	Participant1ID uint `gorm:"not null;uniqueIndex:idx_matches_room_pair,priority:2" json:"participant1_id"`
	Participant2ID uint `gorm:"not null;uniqueIndex:idx_matches_room_pair,priority:3" json:"participant2_id"`
}

// NewMatch 以標準順序（小 ID 在前）建立一筆配對
func NewMatch(roomID, roundID, a, b uint) Match {
	if a > b {
		a, b = b, a
	}
	return Match{
		RoomID:         roomID,
		RoundID:        roundID,
		Participant1ID: a,
		Participant2ID: b,
	}
}

// HasParticipant 回報配對是否包含指定參加者
func (m *Match) HasParticipant(participantID uint) bool {
	return m.Participant1ID == participantID || m.Participant2ID == participantID
}

// OtherParticipant 回傳配對中的另一位參加者
func (m *Match) OtherParticipant(participantID uint) (uint, bool) {
	switch participantID {
	case m.Participant1ID:
		return m.Participant2ID, true
	case m.Participant2ID:
		return m.Participant1ID, true
	default:
		return 0, false
	}
}
