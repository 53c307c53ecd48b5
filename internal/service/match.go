package service

import (
	"errors"

	"gorm.io/gorm"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
)

// MatchDetectionReport 回報回合是否已收齊所有參加者的指名
type MatchDetectionReport struct {
	Ready     bool `json:"ready"`
	Submitted int  `json:"submitted"`
	Total     int  `json:"total"`
}

// MatchService 從回合的指名中找出互選配對並以冪等方式入庫
type MatchService struct {
	roundRepo       repository.RoundRepository
	participantRepo repository.ParticipantRepository
	selectionRepo   repository.SelectionRepository
	matchRepo       repository.MatchRepository
}

func NewMatchService(
	roundRepo repository.RoundRepository,
	participantRepo repository.ParticipantRepository,
	selectionRepo repository.SelectionRepository,
	matchRepo repository.MatchRepository,
) *MatchService {
	return &MatchService{
		roundRepo:       roundRepo,
		participantRepo: participantRepo,
		selectionRepo:   selectionRepo,
		matchRepo:       matchRepo,
	}
}

// DetectMatches 偵測回合內的互選配對
// 重複執行不會產生重複的配對列：先查既有配對（兩種欄位順序都查），
// 寫入時再以 (room_id, participant1_id, participant2_id) 唯一索引擋住併發競爭。
// 沒有任何指名時回傳空結果，不是錯誤
func (s *MatchService) DetectMatches(roundID uint) ([]models.Match, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	selections, err := s.selectionRepo.FindByRoundID(round.ID)
	if err != nil {
		return nil, err
	}

	// 只看有效指名（排除棄權與空目標），建立 指名者 -> 被指名者 的映射
	choices := make(map[uint]uint, len(selections))
	for i := range selections {
		if selections[i].IsNomination() {
			choices[selections[i].SelectorID] = *selections[i].SelectedID
		}
	}

	// 互選檢查：a 指名 b 且 b 指名 a
	// 以 a < b 的標準順序走訪，同一對只會被收集一次
	var matches []models.Match
	for a, b := range choices {
		if a >= b {
			continue
		}
		if choices[b] != a {
			continue
		}

		match, err := s.ensureMatch(round.RoomID, round.ID, a, b)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, nil
}

// ensureMatch 確保配對存在唯一一列，已存在時直接回傳既有紀錄
func (s *MatchService) ensureMatch(roomID, roundID, a, b uint) (*models.Match, error) {
	existing, err := s.matchRepo.FindByRoomAndPair(roomID, a, b)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	match := models.NewMatch(roomID, roundID, a, b)
	if err := s.matchRepo.Create(&match); err != nil {
		// 併發的另一次偵測先寫入了同一對，改讀既有紀錄
		if isUniqueViolation(err) {
			return s.matchRepo.FindByRoomAndPair(roomID, a, b)
		}
		return nil, err
	}
	return &match, nil
}

// ValidateMatchDetection 檢查回合是否已收齊所有參加者的指名
// 僅作為「結果是否定案」的參考，偵測本身隨時可以提前執行
func (s *MatchService) ValidateMatchDetection(roundID uint) (*MatchDetectionReport, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	total, err := s.participantRepo.CountByRoomID(round.RoomID)
	if err != nil {
		return nil, err
	}
	submitted, err := s.selectionRepo.CountByRoundID(round.ID)
	if err != nil {
		return nil, err
	}

	return &MatchDetectionReport{
		Ready:     submitted >= total && total > 0,
		Submitted: int(submitted),
		Total:     int(total),
	}, nil
}

// GetRoundMatches 查詢回合產生的配對
func (s *MatchService) GetRoundMatches(roundID uint) ([]models.Match, error) {
	if _, err := s.roundRepo.FindByID(roundID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return s.matchRepo.FindByRoundID(roundID)
}
