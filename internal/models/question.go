package models

import (
	"gorm.io/gorm"
)

// Question 表示題庫中的一道話題題目，屬於不可變的參考資料
type Question struct {
	gorm.Model
	Content    string           `gorm:"type:text;not null" json:"content"`
	Category   QuestionCategory `gorm:"size:20;not null;index" json:"category"`
	Difficulty int              `gorm:"not null" json:"difficulty"` // 1-5
}

// QuestionCategory 定義題目分類的類型
type QuestionCategory string

const (
	CategoryRomance      QuestionCategory = "romance"
	CategoryFriendship   QuestionCategory = "friendship"
	CategoryPersonality  QuestionCategory = "personality"
	CategoryLifestyle    QuestionCategory = "lifestyle"
	CategoryPreferences  QuestionCategory = "preferences"
	CategoryHypothetical QuestionCategory = "hypothetical"
)

// AllCategories 列出所有題目分類
func AllCategories() []QuestionCategory {
	return []QuestionCategory{
		CategoryRomance,
		CategoryFriendship,
		CategoryPersonality,
		CategoryLifestyle,
		CategoryPreferences,
		CategoryHypothetical,
	}
}
