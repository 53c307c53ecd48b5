package repository

import (
	"heartsignal_web/internal/models"
	"heartsignal_web/internal/storage"
)

type QuestionRepository interface {
	Create(question *models.Question) error
	FindByID(id uint) (*models.Question, error)
	FindByCategories(categories []models.QuestionCategory, excludeIDs []uint) ([]models.Question, error)
	FindAllExcluding(excludeIDs []uint) ([]models.Question, error)
}

type questionRepository struct {
	db *storage.PostgresDB
}

func NewQuestionRepository(db *storage.PostgresDB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindByCategories 查詢指定分類中尚未被排除的題目
func (r *questionRepository) FindByCategories(categories []models.QuestionCategory, excludeIDs []uint) ([]models.Question, error) {
	query := r.db.Where("category IN ?", categories)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var questions []models.Question
	err := query.Find(&questions).Error
	return questions, err
}

// FindAllExcluding 查詢所有尚未被排除的題目，作為分類用盡時的後備
func (r *questionRepository) FindAllExcluding(excludeIDs []uint) ([]models.Question, error) {
	q := r.db.Model(&models.Question{})
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var questions []models.Question
	err := q.Find(&questions).Error
	return questions, err
}
