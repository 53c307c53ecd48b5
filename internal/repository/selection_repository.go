package repository

import (
	"heartsignal_web/internal/models"
	"heartsignal_web/internal/storage"
)

type SelectionRepository interface {
	Create(selection *models.Selection) error
	Update(selection *models.Selection) error
	FindByRoundID(roundID uint) ([]models.Selection, error)
	FindByRoundAndSelector(roundID, selectorID uint) (*models.Selection, error)
	FindByRoomID(roomID uint) ([]models.Selection, error)
	CountByRoundID(roundID uint) (int64, error)
	DeleteByParticipant(participantID uint) error
}

type selectionRepository struct {
	db *storage.PostgresDB
}

func NewSelectionRepository(db *storage.PostgresDB) SelectionRepository {
	return &selectionRepository{db: db}
}

func (r *selectionRepository) Create(selection *models.Selection) error {
	return r.db.Create(selection).Error
}

func (r *selectionRepository) Update(selection *models.Selection) error {
	return r.db.Save(selection).Error
}

func (r *selectionRepository) FindByRoundID(roundID uint) ([]models.Selection, error) {
	var selections []models.Selection
	err := r.db.Where("round_id = ?", roundID).Order("id asc").Find(&selections).Error
	return selections, err
}

func (r *selectionRepository) FindByRoundAndSelector(roundID, selectorID uint) (*models.Selection, error) {
	var selection models.Selection
	err := r.db.Where("round_id = ? AND selector_id = ?", roundID, selectorID).First(&selection).Error
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

// FindByRoomID 跨回合查詢房間內所有指名，供統計使用
func (r *selectionRepository) FindByRoomID(roomID uint) ([]models.Selection, error) {
	var selections []models.Selection
	err := r.db.Joins("JOIN rounds ON rounds.id = selections.round_id").
		Where("rounds.room_id = ?", roomID).
		Order("selections.id asc").
		Find(&selections).Error
	return selections, err
}

// DeleteByParticipant 清除參加者永久離開時留下的指名（包含指名他人與被指名）
func (r *selectionRepository) DeleteByParticipant(participantID uint) error {
	return r.db.Unscoped().
		Where("selector_id = ? OR selected_id = ?", participantID, participantID).
		Delete(&models.Selection{}).Error
}

func (r *selectionRepository) CountByRoundID(roundID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Selection{}).Where("round_id = ?", roundID).Count(&count).Error
	return count, err
}
