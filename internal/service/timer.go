package service

import (
	"sync"
	"time"

	"heartsignal_web/internal/models"
)

// TimerState 定義計時器的狀態
type TimerState string

const (
	TimerStateRunning TimerState = "running"
	TimerStatePaused  TimerState = "paused"
	TimerStateExpired TimerState = "expired"
	TimerStateStopped TimerState = "stopped"
)

// 警告等級
const (
	Warning30      = "warning_30"
	Warning10      = "warning_10"
	WarningExpired = "expired"
)

// TimerSnapshot 是某一時刻計時器的完整讀數
type TimerSnapshot struct {
	RoundID   uint              `json:"round_id"`
	Phase     models.RoundPhase `json:"phase"`
	State     TimerState        `json:"state"`
	Remaining int               `json:"remaining"` // 剩餘秒數，不會小於 0
	Duration  int               `json:"duration"`
}

type timerKey struct {
	roundID uint
	phase   models.RoundPhase
}

type warningFlags struct {
	warn30  bool
	warn10  bool
	expired bool
}

// TimerEngine 由回合上持久化的時間錨點推算剩餘時間，
// 本身不持有遊戲狀態，任何程序重啟後仍可得到相同結果。
// 唯一的記憶體狀態是「哪些警告已經觸發過」的旗標，
// 用來保證每個警告邊界在計時器生命週期內只觸發一次。
type TimerEngine struct {
	now func() time.Time

	mu    sync.Mutex
	fired map[timerKey]*warningFlags
}

func NewTimerEngine() *TimerEngine {
	return &TimerEngine{
		now:   time.Now,
		fired: make(map[timerKey]*warningFlags),
	}
}

// Snapshot 計算指定階段計時器當下的讀數
func (e *TimerEngine) Snapshot(round *models.Round, phase models.RoundPhase) TimerSnapshot {
	snap := TimerSnapshot{RoundID: round.ID, Phase: phase}

	anchor, duration := round.PhaseAnchor(phase)
	snap.Duration = duration

	// 階段尚未開始，或回合已結束且查詢的不是當前階段，一律視為停止
	if anchor == nil || round.Status == models.RoundStatusCompleted {
		snap.State = TimerStateStopped
		return snap
	}
	if current, ok := round.CurrentPhase(); !ok || current != phase {
		snap.State = TimerStateStopped
		return snap
	}

	var elapsed time.Duration
	paused := round.PausedAt != nil
	if paused {
		// 暫停期間時鐘凍結在暫停當下
		elapsed = round.PausedAt.Sub(*anchor) - round.TotalPaused
	} else {
		elapsed = e.now().Sub(*anchor) - round.TotalPaused
	}

	remaining := time.Duration(duration)*time.Second - elapsed
	if remaining < 0 {
		remaining = 0
	}
	snap.Remaining = int(remaining / time.Second)

	switch {
	case remaining <= 0:
		snap.State = TimerStateExpired
	case paused:
		snap.State = TimerStatePaused
	default:
		snap.State = TimerStateRunning
	}
	return snap
}

// CurrentSnapshot 在未指定階段時，解析回合當前階段的計時器讀數
func (e *TimerEngine) CurrentSnapshot(round *models.Round) TimerSnapshot {
	phase, ok := round.CurrentPhase()
	if !ok {
		return TimerSnapshot{RoundID: round.ID, State: TimerStateStopped}
	}
	return e.Snapshot(round, phase)
}

// CollectWarnings 回傳本次檢查新跨越的警告邊界
// 每個邊界在同一個計時器生命週期內只會回傳一次（邊緣觸發）
func (e *TimerEngine) CollectWarnings(round *models.Round, phase models.RoundPhase) []string {
	snap := e.Snapshot(round, phase)
	if snap.State == TimerStateStopped {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := timerKey{roundID: round.ID, phase: phase}
	flags := e.fired[key]
	if flags == nil {
		flags = &warningFlags{}
		e.fired[key] = flags
	}

	var warnings []string
	if snap.Remaining <= 30 && !flags.warn30 {
		flags.warn30 = true
		warnings = append(warnings, Warning30)
	}
	if snap.Remaining <= 10 && !flags.warn10 {
		flags.warn10 = true
		warnings = append(warnings, Warning10)
	}
	if snap.State == TimerStateExpired && !flags.expired {
		flags.expired = true
		warnings = append(warnings, WarningExpired)
	}
	return warnings
}

// ResetWarnings 在階段（重新）開始時重置警告旗標
func (e *TimerEngine) ResetWarnings(roundID uint, phase models.RoundPhase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.fired, timerKey{roundID: roundID, phase: phase})
}

// Clear 移除回合兩個階段的所有計時器旗標（停止／重置）
func (e *TimerEngine) Clear(roundID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.fired, timerKey{roundID: roundID, phase: models.PhaseFreeTime})
	delete(e.fired, timerKey{roundID: roundID, phase: models.PhaseSelectionTime})
}
