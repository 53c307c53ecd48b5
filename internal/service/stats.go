package service

import (
	"errors"
	"math"
	"sort"

	"gorm.io/gorm"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
)

// RankingEntry 是排行榜中的一列
type RankingEntry struct {
	ParticipantID uint   `json:"participant_id"`
	Nickname      string `json:"nickname"`
	Count         int    `json:"count"`
}

// RoundSummary 是單一回合的統計摘要
type RoundSummary struct {
	RoundNumber  int `json:"round_number"`
	Selections   int `json:"selections"`
	Matches      int `json:"matches"`
	MatchingRate int `json:"matching_rate"` // 百分比
}

// GenderBalance 是單一性別的配對情況
type GenderBalance struct {
	Gender  models.Gender `json:"gender"`
	Matched int           `json:"matched"`
	Total   int           `json:"total"`
}

// FinalResults 是整場遊戲的最終統計
type FinalResults struct {
	Popularity    []RankingEntry  `json:"popularity"`
	Matching      []RankingEntry  `json:"matching"`
	Rounds        []RoundSummary  `json:"rounds"`
	GenderBalance []GenderBalance `json:"gender_balance"`
	TotalMatches  int             `json:"total_matches"`
}

// StatsService 從累積的指名與配對衍生唯讀統計
type StatsService struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	roundRepo       repository.RoundRepository
	selectionRepo   repository.SelectionRepository
	matchRepo       repository.MatchRepository
}

func NewStatsService(repos *repository.Repositories) *StatsService {
	return &StatsService{
		roomRepo:        repos.Room,
		participantRepo: repos.Participant,
		roundRepo:       repos.Round,
		selectionRepo:   repos.Selection,
		matchRepo:       repos.Match,
	}
}

// GetFinalResults 彙整房間的最終結果
func (s *StatsService) GetFinalResults(roomID uint) (*FinalResults, error) {
	if _, err := s.roomRepo.FindByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	participants, err := s.participantRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	selections, err := s.selectionRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	rounds, err := s.roundRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}

	results := &FinalResults{
		Popularity:    s.popularityRanking(participants, selections),
		Matching:      s.matchingRanking(participants, matches),
		Rounds:        s.roundSummaries(rounds, selections, matches),
		GenderBalance: s.genderBalance(participants, matches),
		TotalMatches:  len(matches),
	}
	return results, nil
}

// popularityRanking 統計每位參加者被有效指名的次數
// 次數相同時以參加者 ID 升冪（加入順序）決定名次，排序結果是確定性的
func (s *StatsService) popularityRanking(participants []models.Participant, selections []models.Selection) []RankingEntry {
	counts := make(map[uint]int)
	for i := range selections {
		if selections[i].IsNomination() {
			counts[*selections[i].SelectedID]++
		}
	}
	return rankParticipants(participants, counts)
}

// matchingRanking 統計每位參加者出現在配對中的次數
func (s *StatsService) matchingRanking(participants []models.Participant, matches []models.Match) []RankingEntry {
	counts := make(map[uint]int)
	for i := range matches {
		counts[matches[i].Participant1ID]++
		counts[matches[i].Participant2ID]++
	}
	return rankParticipants(participants, counts)
}

// roundSummaries 產生每回合的指名數、配對數與配對率
// 配對率 = round(配對數*2 / 指名數 * 100)，沒有指名時為 0
func (s *StatsService) roundSummaries(rounds []models.Round, selections []models.Selection, matches []models.Match) []RoundSummary {
	selectionsByRound := make(map[uint]int)
	for i := range selections {
		selectionsByRound[selections[i].RoundID]++
	}
	matchesByRound := make(map[uint]int)
	for i := range matches {
		matchesByRound[matches[i].RoundID]++
	}

	summaries := make([]RoundSummary, 0, len(rounds))
	for i := range rounds {
		selCount := selectionsByRound[rounds[i].ID]
		matchCount := matchesByRound[rounds[i].ID]
		rate := 0
		if selCount > 0 {
			rate = int(math.Round(float64(matchCount*2) / float64(selCount) * 100))
		}
		summaries = append(summaries, RoundSummary{
			RoundNumber:  rounds[i].RoundNumber,
			Selections:   selCount,
			Matches:      matchCount,
			MatchingRate: rate,
		})
	}
	return summaries
}

// genderBalance 統計各性別的總人數與至少配對成功一次的人數
func (s *StatsService) genderBalance(participants []models.Participant, matches []models.Match) []GenderBalance {
	matched := make(map[uint]bool)
	for i := range matches {
		matched[matches[i].Participant1ID] = true
		matched[matches[i].Participant2ID] = true
	}

	totals := make(map[models.Gender]*GenderBalance)
	order := []models.Gender{}
	for i := range participants {
		gender := participants[i].Gender
		entry := totals[gender]
		if entry == nil {
			entry = &GenderBalance{Gender: gender}
			totals[gender] = entry
			order = append(order, gender)
		}
		entry.Total++
		if matched[participants[i].ID] {
			entry.Matched++
		}
	}

	result := make([]GenderBalance, 0, len(order))
	for _, gender := range order {
		result = append(result, *totals[gender])
	}
	return result
}

// rankParticipants 依次數降冪排序，平手時 ID 小（較早加入）者在前
func rankParticipants(participants []models.Participant, counts map[uint]int) []RankingEntry {
	entries := make([]RankingEntry, 0, len(participants))
	for i := range participants {
		entries = append(entries, RankingEntry{
			ParticipantID: participants[i].ID,
			Nickname:      participants[i].Nickname,
			Count:         counts[participants[i].ID],
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ParticipantID < entries[j].ParticipantID
	})
	return entries
}
