package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
)

// 留言長度上限（字元數），超出部分靜默截斷
const maxSelectionMessageLen = 100

// SelectionInput 是提交或修改指名的輸入
type SelectionInput struct {
	SelectedID *uint  `json:"selected_id"`
	Message    string `json:"message"`
	IsPassed   bool   `json:"is_passed"`
}

// SelectionService 負責驗證並儲存每位參加者每回合唯一的指名（或棄權）
type SelectionService struct {
	roundRepo       repository.RoundRepository
	participantRepo repository.ParticipantRepository
	selectionRepo   repository.SelectionRepository
}

func NewSelectionService(
	roundRepo repository.RoundRepository,
	participantRepo repository.ParticipantRepository,
	selectionRepo repository.SelectionRepository,
) *SelectionService {
	return &SelectionService{
		roundRepo:       roundRepo,
		participantRepo: participantRepo,
		selectionRepo:   selectionRepo,
	}
}

// Submit 提交一筆指名，是只能成功一次的操作
// 重複提交一律回傳 ErrDuplicateSelection，需要更正時必須走 Update
func (s *SelectionService) Submit(roundID, selectorID uint, input SelectionInput) (*models.Selection, error) {
	round, selector, err := s.validate(roundID, selectorID, &input)
	if err != nil {
		return nil, err
	}

	// 先讀後寫的檢查只是快速路徑，
	// (round_id, selector_id) 的唯一索引才是重複提交的最終裁決
	if _, err := s.selectionRepo.FindByRoundAndSelector(round.ID, selector.ID); err == nil {
		return nil, ErrDuplicateSelection
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	selection := &models.Selection{
		RoundID:    round.ID,
		SelectorID: selector.ID,
		SelectedID: input.SelectedID,
		Message:    input.Message,
		IsPassed:   input.IsPassed,
	}
	if err := s.selectionRepo.Create(selection); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSelection
		}
		return nil, err
	}
	return selection, nil
}

// Update 在回合結束前更正已提交的指名
// 必須存在本人先前提交的紀錄，並重新執行與 Submit 相同的驗證
func (s *SelectionService) Update(roundID, selectorID uint, input SelectionInput) (*models.Selection, error) {
	round, selector, err := s.validate(roundID, selectorID, &input)
	if err != nil {
		return nil, err
	}

	selection, err := s.selectionRepo.FindByRoundAndSelector(round.ID, selector.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSelectionNotFound
		}
		return nil, err
	}

	selection.SelectedID = input.SelectedID
	selection.Message = input.Message
	selection.IsPassed = input.IsPassed
	if err := s.selectionRepo.Update(selection); err != nil {
		return nil, err
	}
	return selection, nil
}

// GetRoundSelections 查詢回合內所有指名
func (s *SelectionService) GetRoundSelections(roundID uint) ([]models.Selection, error) {
	if _, err := s.roundRepo.FindByID(roundID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return s.selectionRepo.FindByRoundID(roundID)
}

// validate 依序執行跨房間、自我指名、回合狀態三項檢查，並正規化輸入
func (s *SelectionService) validate(roundID, selectorID uint, input *SelectionInput) (*models.Round, *models.Participant, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoundNotFound
		}
		return nil, nil, err
	}

	// 棄權與指名互斥：棄權時強制清空目標與留言
	if input.IsPassed {
		input.SelectedID = nil
		input.Message = ""
	} else if input.SelectedID == nil {
		return nil, nil, ErrInvalidSelection
	}

	selector, err := s.participantRepo.FindByID(selectorID)
	if err != nil || selector.RoomID != round.RoomID {
		return nil, nil, ErrCrossRoomSelection
	}

	if input.SelectedID != nil {
		selected, err := s.participantRepo.FindByID(*input.SelectedID)
		if err != nil || selected.RoomID != round.RoomID {
			return nil, nil, ErrCrossRoomSelection
		}
		if selected.ID == selector.ID {
			return nil, nil, ErrSelfSelection
		}
	}

	if !round.IsActive() {
		return nil, nil, ErrRoundNotActive
	}

	input.Message = trimMessage(input.Message)
	return round, selector, nil
}

// trimMessage 去除前後空白並截斷到長度上限
func trimMessage(message string) string {
	message = strings.TrimSpace(message)
	runes := []rune(message)
	if len(runes) > maxSelectionMessageLen {
		return string(runes[:maxSelectionMessageLen])
	}
	return message
}
