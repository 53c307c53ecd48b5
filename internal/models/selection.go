package models

import (
	"gorm.io/gorm"
)

// Selection 表示一位參加者在某回合的指名（或明確棄權）
// (RoundID, SelectorID) 的唯一索引是「每人每回合一次」的最終依據
type Selection struct {
	gorm.Model
	RoundID    uint   `gorm:"not null;uniqueIndex:idx_selections_round_selector,priority:1" json:"round_id"`
	SelectorID uint   `gorm:"not null;uniqueIndex:idx_selections_round_selector,priority:2" json:"selector_id"`
	SelectedID *uint  `json:"selected_id"` // 棄權時為空
	Message    string `gorm:"size:100" json:"message"`
	IsPassed   bool   `gorm:"not null;default:false" json:"is_passed"`
}

// IsNomination 回報這筆紀錄是否為有效指名（非棄權且有目標）
func (s *Selection) IsNomination() bool {
	return !s.IsPassed && s.SelectedID != nil
}
