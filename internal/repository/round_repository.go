package repository

import (
	"heartsignal_web/internal/models"
	"heartsignal_web/internal/storage"
)

type RoundRepository interface {
	Create(round *models.Round) error
	FindByID(id uint) (*models.Round, error)
	FindByRoomID(roomID uint) ([]models.Round, error)
	FindByRoomAndNumber(roomID uint, roundNumber int) (*models.Round, error)
	FindActiveByRoomID(roomID uint) (*models.Round, error)
	Update(round *models.Round) error
	UsedQuestionIDs(roomID uint) ([]uint, error)
}

type roundRepository struct {
	db *storage.PostgresDB
}

func NewRoundRepository(db *storage.PostgresDB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(round *models.Round) error {
	return r.db.Create(round).Error
}

func (r *roundRepository) FindByID(id uint) (*models.Round, error) {
	var round models.Round
	err := r.db.First(&round, id).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) FindByRoomID(roomID uint) ([]models.Round, error) {
	var rounds []models.Round
	err := r.db.Where("room_id = ?", roomID).Order("round_number asc").Find(&rounds).Error
	return rounds, err
}

func (r *roundRepository) FindByRoomAndNumber(roomID uint, roundNumber int) (*models.Round, error) {
	var round models.Round
	err := r.db.Where("room_id = ? AND round_number = ?", roomID, roundNumber).First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// FindActiveByRoomID 查詢房間內唯一進行中的回合；沒有時回傳 gorm.ErrRecordNotFound
func (r *roundRepository) FindActiveByRoomID(roomID uint) (*models.Round, error) {
	var round models.Round
	err := r.db.Where("room_id = ? AND status IN ?", roomID,
		[]models.RoundStatus{models.RoundStatusFreeTime, models.RoundStatusSelectionTime}).
		First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) Update(round *models.Round) error {
	return r.db.Save(round).Error
}

// UsedQuestionIDs 查詢房間內所有回合已使用過的題目 ID
func (r *roundRepository) UsedQuestionIDs(roomID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Round{}).Where("room_id = ? AND question_id <> 0", roomID).
		Pluck("question_id", &ids).Error
	return ids, err
}
