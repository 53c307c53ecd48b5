package repository

import (
	"heartsignal_web/internal/models"
	"heartsignal_web/internal/storage"
)

type MatchRepository interface {
	Create(match *models.Match) error
	FindByRoomID(roomID uint) ([]models.Match, error)
	FindByRoundID(roundID uint) ([]models.Match, error)
	FindByRoomAndPair(roomID, a, b uint) (*models.Match, error)
	DeleteByParticipant(roomID, participantID uint) error
}

type matchRepository struct {
	db *storage.PostgresDB
}

func NewMatchRepository(db *storage.PostgresDB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(match *models.Match) error {
	return r.db.Create(match).Error
}

func (r *matchRepository) FindByRoomID(roomID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Where("room_id = ?", roomID).Order("id asc").Find(&matches).Error
	return matches, err
}

func (r *matchRepository) FindByRoundID(roundID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Where("round_id = ?", roundID).Order("id asc").Find(&matches).Error
	return matches, err
}

// DeleteByParticipant 清除參加者永久離開時在房間內的所有配對
func (r *matchRepository) DeleteByParticipant(roomID, participantID uint) error {
	return r.db.Unscoped().
		Where("room_id = ? AND (participant1_id = ? OR participant2_id = ?)", roomID, participantID, participantID).
		Delete(&models.Match{}).Error
}

// FindByRoomAndPair 以兩種順序查詢配對是否已存在；不存在時回傳 gorm.ErrRecordNotFound
func (r *matchRepository) FindByRoomAndPair(roomID, a, b uint) (*models.Match, error) {
	var match models.Match
	err := r.db.Where("room_id = ? AND ((participant1_id = ? AND participant2_id = ?) OR (participant1_id = ? AND participant2_id = ?))",
		roomID, a, b, b, a).First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}
