package service

import (
	"math/rand"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
)

// QuestionService 負責為回合挑選未使用過的題目
type QuestionService struct {
	questionRepo repository.QuestionRepository
	roundRepo    repository.RoundRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, roundRepo repository.RoundRepository) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		roundRepo:    roundRepo,
	}
}

// categoriesForRound 依回合編號對應到適合的題目分類
// 前期破冰、中期深入、後期攤牌；超出 1-10 時回退到全部分類
func categoriesForRound(roundNumber int) []models.QuestionCategory {
	switch {
	case roundNumber >= 1 && roundNumber <= 3:
		return []models.QuestionCategory{models.CategoryRomance, models.CategoryFriendship}
	case roundNumber >= 4 && roundNumber <= 7:
		return []models.QuestionCategory{models.CategoryPersonality, models.CategoryLifestyle}
	case roundNumber >= 8 && roundNumber <= 10:
		return []models.QuestionCategory{models.CategoryPreferences, models.CategoryHypothetical}
	default:
		return models.AllCategories()
	}
}

// SelectQuestionForRound 為回合挑選一道題目
// 排除房間內已使用過的題目與呼叫方額外指定的排除清單；
// 對應分類沒有剩餘題目時，回退到任何未使用過的題目，
// 只有整個題庫耗盡時才回傳 ErrNoQuestionsAvailable
func (s *QuestionService) SelectQuestionForRound(roomID uint, roundNumber int, excludeIDs []uint) (*models.Question, error) {
	usedIDs, err := s.roundRepo.UsedQuestionIDs(roomID)
	if err != nil {
		return nil, err
	}
	usedIDs = append(usedIDs, excludeIDs...)

	candidates, err := s.questionRepo.FindByCategories(categoriesForRound(roundNumber), usedIDs)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		candidates, err = s.questionRepo.FindAllExcluding(usedIDs)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	question := candidates[rand.Intn(len(candidates))]
	return &question, nil
}
