package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
	"heartsignal_web/pkg/config"
)

// 階段時長的預設值與硬上限（秒）
const (
	defaultFreeTimeDuration      = 180
	defaultSelectionTimeDuration = 120
	maxPhaseDuration             = 600
)

// roomLocker 提供每個房間一把互斥鎖
// 回合狀態轉移必須在鎖內執行，避免兩個併發請求同時推進同一個房間
type roomLocker struct {
	locks sync.Map // roomID -> *sync.Mutex
}

func (l *roomLocker) lock(roomID uint) *sync.Mutex {
	v, _ := l.locks.LoadOrStore(roomID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

// RoundService 擁有房間的回合生命週期：
// pending → free_time → selection_time → completed，重複 total_rounds 次後房間結束
type RoundService struct {
	roomRepo        repository.RoomRepository
	roundRepo       repository.RoundRepository
	participantRepo repository.ParticipantRepository
	questionService *QuestionService
	matchService    *MatchService
	timer           *TimerEngine
	wsManager       *WebSocketManager
	cfg             config.GameConfig

	now    func() time.Time
	locker roomLocker
}

func NewRoundService(
	repos *repository.Repositories,
	questionService *QuestionService,
	matchService *MatchService,
	timer *TimerEngine,
	wsManager *WebSocketManager,
	cfg config.GameConfig,
) *RoundService {
	return &RoundService{
		roomRepo:        repos.Room,
		roundRepo:       repos.Round,
		participantRepo: repos.Participant,
		questionService: questionService,
		matchService:    matchService,
		timer:           timer,
		wsManager:       wsManager,
		cfg:             cfg,
		now:             time.Now,
	}
}

// StartRound 啟動指定編號的回合，回合編號必須嚴格遞增：
// 只能啟動下一個未完成的編號，跳號或回頭一律回傳 ErrInvalidRoundNumber。
// 同一編號已在進行中回傳 ErrRoundAlreadyActive，已完成回傳 ErrRoundAlreadyCompleted；
// 成功時挑選一道房間內未用過的題目，回合進入 free_time 並開始計時
func (s *RoundService) StartRound(roomID uint, roundNumber int, callerUserID uint) (*models.Round, error) {
	room, err := s.requireHost(roomID, callerUserID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusInProgress {
		return nil, ErrGameNotStarted
	}
	if roundNumber < 1 || roundNumber > room.TotalRounds {
		return nil, ErrInvalidRoundNumber
	}

	mu := s.locker.lock(roomID)
	defer mu.Unlock()

	// 房間內同時只能有一個進行中的回合
	if _, err := s.roundRepo.FindActiveByRoomID(roomID); err == nil {
		return nil, ErrRoundAlreadyActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	existing, err := s.roundRepo.FindByRoomAndNumber(roomID, roundNumber)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.RoundStatusCompleted:
			return nil, ErrRoundAlreadyCompleted
		case models.RoundStatusFreeTime, models.RoundStatusSelectionTime:
			return nil, ErrRoundAlreadyActive
		}
	}

	// 回合必須依編號順序進行：第 N 回合只能在 1..N-1 全部結束後開始
	rounds, err := s.roundRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	next := 1
	for i := range rounds {
		if rounds[i].Status == models.RoundStatusCompleted && rounds[i].RoundNumber >= next {
			next = rounds[i].RoundNumber + 1
		}
	}
	if roundNumber != next {
		return nil, ErrInvalidRoundNumber
	}

	question, err := s.questionService.SelectQuestionForRound(roomID, roundNumber, nil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	round := existing
	if round == nil {
		round = &models.Round{RoomID: roomID, RoundNumber: roundNumber}
	}
	round.QuestionID = question.ID
	round.Status = models.RoundStatusFreeTime
	round.StartedAt = &now
	round.FreeTimeStartedAt = &now
	round.FreeTimeDuration = capDuration(s.cfg.FreeTimeDuration, defaultFreeTimeDuration)
	round.SelectionTimeDuration = capDuration(s.cfg.SelectionTimeDuration, defaultSelectionTimeDuration)
	round.PausedAt = nil
	round.TotalPaused = 0

	if round.ID == 0 {
		err = s.roundRepo.Create(round)
	} else {
		err = s.roundRepo.Update(round)
	}
	if err != nil {
		// 唯一索引 (room_id, round_number) 擋下了併發的另一次啟動
		if isUniqueViolation(err) {
			return nil, ErrRoundAlreadyActive
		}
		return nil, err
	}

	s.timer.ResetWarnings(round.ID, models.PhaseFreeTime)
	s.timer.ResetWarnings(round.ID, models.PhaseSelectionTime)

	s.broadcastEvent(roomID, models.MessageTypeRoundStarted,
		fmt.Sprintf("第 %d 回合開始，自由聊天時間", roundNumber),
		map[string]interface{}{
			"round_id":     round.ID,
			"round_number": roundNumber,
			"question":     question.Content,
			"phase":        models.PhaseFreeTime,
			"duration":     round.FreeTimeDuration,
		})
	return round, nil
}

// StartSelectionTime 將回合從自由聊天推進到指名階段
func (s *RoundService) StartSelectionTime(roomID, roundID uint, callerUserID uint) (*models.Round, error) {
	if _, err := s.requireHost(roomID, callerUserID); err != nil {
		return nil, err
	}

	mu := s.locker.lock(roomID)
	defer mu.Unlock()

	round, err := s.findRoomRound(roomID, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != models.RoundStatusFreeTime {
		return nil, ErrRoundNotActive
	}

	if err := s.advanceToSelection(round); err != nil {
		return nil, err
	}
	return round, nil
}

// EndRound 結束進行中的回合，只在 free_time 或 selection_time 有效
// 結束後立刻執行配對偵測；若這是最後一個回合，房間進入 completed
func (s *RoundService) EndRound(roundID, roomID uint, callerUserID uint) (*models.Round, error) {
	room, err := s.requireHost(roomID, callerUserID)
	if err != nil {
		return nil, err
	}

	mu := s.locker.lock(roomID)
	defer mu.Unlock()

	round, err := s.findRoomRound(roomID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return nil, ErrRoundNotActive
	}

	if err := s.completeRound(room, round); err != nil {
		return nil, err
	}
	return round, nil
}

// PauseRound 暫停回合計時，暫停期間不消耗剩餘時間
// 暫停錨點持久化在回合上，重新整理或換一台實例都看得到相同的凍結時鐘
func (s *RoundService) PauseRound(roomID, roundID uint, callerUserID uint) (*models.Round, error) {
	if _, err := s.requireHost(roomID, callerUserID); err != nil {
		return nil, err
	}

	mu := s.locker.lock(roomID)
	defer mu.Unlock()

	round, err := s.findRoomRound(roomID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return nil, ErrRoundNotActive
	}
	if round.PausedAt != nil {
		return nil, ErrRoundPaused
	}

	now := s.now()
	round.PausedAt = &now
	if err := s.roundRepo.Update(round); err != nil {
		return nil, err
	}

	s.wsManager.BroadcastSystemMessage(roomID, "回合已暫停")
	return round, nil
}

// ResumeRound 恢復計時，暫停的區間累計進 TotalPaused，剩餘時間不受影響
func (s *RoundService) ResumeRound(roomID, roundID uint, callerUserID uint) (*models.Round, error) {
	if _, err := s.requireHost(roomID, callerUserID); err != nil {
		return nil, err
	}

	mu := s.locker.lock(roomID)
	defer mu.Unlock()

	round, err := s.findRoomRound(roomID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return nil, ErrRoundNotActive
	}
	if round.PausedAt == nil {
		return nil, ErrRoundNotPaused
	}

	round.TotalPaused += s.now().Sub(*round.PausedAt)
	round.PausedAt = nil
	if err := s.roundRepo.Update(round); err != nil {
		return nil, err
	}

	s.wsManager.BroadcastSystemMessage(roomID, "回合繼續")
	return round, nil
}

// SyncPhase 套用計時器到期後應該發生的轉移
// free_time 到期 ⇒ 進入 selection_time；selection_time 到期 ⇒ 結束回合。
// 計時器本身只回報到期事實，所有狀態轉移集中在這裡，任何輪詢方都可以呼叫
func (s *RoundService) SyncPhase(roomID, roundID uint) (*models.Round, error) {
	mu := s.locker.lock(roomID)
	defer mu.Unlock()

	round, err := s.findRoomRound(roomID, roundID)
	if err != nil {
		return nil, err
	}
	if !round.IsActive() {
		return round, nil
	}

	phase, _ := round.CurrentPhase()
	snap := s.timer.Snapshot(round, phase)
	if snap.State != TimerStateExpired {
		return round, nil
	}

	if phase == models.PhaseFreeTime {
		if err := s.advanceToSelection(round); err != nil {
			return nil, err
		}
		return round, nil
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, err
	}
	if err := s.completeRound(room, round); err != nil {
		return nil, err
	}
	return round, nil
}

// GetTimer 讀取回合當前階段的計時器讀數，並廣播新觸發的警告
func (s *RoundService) GetTimer(roomID, roundID uint) (*TimerSnapshot, error) {
	round, err := s.findRoomRound(roomID, roundID)
	if err != nil {
		return nil, err
	}

	snap := s.timer.CurrentSnapshot(round)
	if phase, ok := round.CurrentPhase(); ok {
		for _, warning := range s.timer.CollectWarnings(round, phase) {
			s.broadcastEvent(roomID, models.MessageTypeTimerWarning, warning,
				map[string]interface{}{
					"round_id":  round.ID,
					"phase":     phase,
					"warning":   warning,
					"remaining": snap.Remaining,
				})
		}
	}
	return &snap, nil
}

// GetRounds 查詢房間內所有回合
func (s *RoundService) GetRounds(roomID uint) ([]models.Round, error) {
	if _, err := s.roomRepo.FindByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.roundRepo.FindByRoomID(roomID)
}

// advanceToSelection 執行 free_time → selection_time 的轉移，呼叫方必須持有房間鎖
func (s *RoundService) advanceToSelection(round *models.Round) error {
	now := s.now()
	round.Status = models.RoundStatusSelectionTime
	round.SelectionTimeStartedAt = &now
	round.PausedAt = nil
	round.TotalPaused = 0
	if err := s.roundRepo.Update(round); err != nil {
		return err
	}

	s.timer.ResetWarnings(round.ID, models.PhaseSelectionTime)
	s.broadcastEvent(round.RoomID, models.MessageTypePhaseChanged,
		"指名時間開始，請私下選出一位心動對象",
		map[string]interface{}{
			"round_id": round.ID,
			"phase":    models.PhaseSelectionTime,
			"duration": round.SelectionTimeDuration,
		})
	return nil
}

// completeRound 結束回合、偵測配對，必要時結束整場遊戲；呼叫方必須持有房間鎖
func (s *RoundService) completeRound(room *models.Room, round *models.Round) error {
	now := s.now()
	round.Status = models.RoundStatusCompleted
	round.EndedAt = &now
	round.PausedAt = nil
	if err := s.roundRepo.Update(round); err != nil {
		return err
	}
	s.timer.Clear(round.ID)

	matches, err := s.matchService.DetectMatches(round.ID)
	if err != nil {
		return err
	}

	s.broadcastEvent(room.ID, models.MessageTypeRoundComplete,
		fmt.Sprintf("第 %d 回合結束，產生 %d 組配對", round.RoundNumber, len(matches)),
		map[string]interface{}{
			"round_id":     round.ID,
			"round_number": round.RoundNumber,
			"match_count":  len(matches),
			"matches":      matches,
		})

	if round.RoundNumber >= room.TotalRounds {
		return s.finishGame(room)
	}
	return nil
}

// finishGame 將房間標記為完成並結算所有參加者
func (s *RoundService) finishGame(room *models.Room) error {
	room.Status = models.RoomStatusCompleted
	if err := s.roomRepo.Update(room); err != nil {
		return err
	}

	participants, err := s.participantRepo.FindByRoomID(room.ID)
	if err != nil {
		return err
	}
	for i := range participants {
		participants[i].Status = models.ParticipantStatusFinished
		if err := s.participantRepo.Update(&participants[i]); err != nil {
			return err
		}
	}

	s.broadcastEvent(room.ID, models.MessageTypeGameComplete,
		"遊戲結束，最終結果已產生", map[string]interface{}{"room_id": room.ID})
	return nil
}

// findRoomRound 查詢回合並確認屬於指定房間
func (s *RoundService) findRoomRound(roomID, roundID uint) (*models.Round, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	if round.RoomID != roomID {
		return nil, ErrRoundNotFound
	}
	return round, nil
}

// requireHost 確認呼叫者是房間的房主
func (s *RoundService) requireHost(roomID, userID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	participant, err := s.participantRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		return nil, ErrNotHost
	}
	if room.HostID == nil || *room.HostID != participant.ID {
		return nil, ErrNotHost
	}
	return room, nil
}

// broadcastEvent 將遊戲事件連同 JSON 附加數據廣播到房間
func (s *RoundService) broadcastEvent(roomID uint, msgType, content string, payload map[string]interface{}) {
	extra, err := json.Marshal(payload)
	if err != nil {
		extra = []byte("{}")
	}
	s.wsManager.BroadcastEvent(roomID, msgType, content, string(extra))
}

// capDuration 套用預設值並將階段時長限制在硬上限內
func capDuration(seconds, fallback int) int {
	if seconds <= 0 {
		seconds = fallback
	}
	if seconds > maxPhaseDuration {
		return maxPhaseDuration
	}
	return seconds
}
