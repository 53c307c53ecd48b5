package repository

import (
	"heartsignal_web/internal/models"
	"heartsignal_web/internal/storage"
)

type ParticipantRepository interface {
	Create(participant *models.Participant) error
	FindByID(id uint) (*models.Participant, error)
	FindByRoomID(roomID uint) ([]models.Participant, error)
	FindByRoomAndUser(roomID, userID uint) (*models.Participant, error)
	Update(participant *models.Participant) error
	Delete(id uint) error
	CountByRoomID(roomID uint) (int64, error)
}

type participantRepository struct {
	db *storage.PostgresDB
}

func NewParticipantRepository(db *storage.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(participant *models.Participant) error {
	return r.db.Create(participant).Error
}

func (r *participantRepository) FindByID(id uint) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.First(&participant, id).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// FindByRoomID 依加入順序查詢房間內所有參加者
func (r *participantRepository) FindByRoomID(roomID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.Where("room_id = ?", roomID).Order("id asc").Find(&participants).Error
	return participants, err
}

func (r *participantRepository) FindByRoomAndUser(roomID, userID uint) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) Update(participant *models.Participant) error {
	return r.db.Save(participant).Error
}

// Delete 永久刪除參加者（硬刪除，連同其指名與配對由房間層級清理）
func (r *participantRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Participant{}, id).Error
}

func (r *participantRepository) CountByRoomID(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Participant{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}
