package service

import (
	"fmt"
	"sync"
	"time"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
	"heartsignal_web/pkg/config"
)

// fakeClock 讓測試完全控制時間流逝
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	clock *fakeClock
	repos *repository.Repositories

	rooms        *stubRoomRepo
	participants *stubParticipantRepo
	rounds       *stubRoundRepo
	questions    *stubQuestionRepo
	selections   *stubSelectionRepo
	matches      *stubMatchRepo

	timer        *TimerEngine
	questionSvc  *QuestionService
	matchSvc     *MatchService
	selectionSvc *SelectionService
	roundSvc     *RoundService
	roomSvc      *RoomService
	statsSvc     *StatsService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		clock:        newFakeClock(),
		rooms:        newStubRoomRepo(),
		participants: newStubParticipantRepo(),
		rounds:       newStubRoundRepo(),
		questions:    &stubQuestionRepo{},
		selections:   newStubSelectionRepo(),
		matches:      newStubMatchRepo(),
	}
	env.repos = &repository.Repositories{
		Room:        env.rooms,
		Participant: env.participants,
		Round:       env.rounds,
		Question:    env.questions,
		Selection:   env.selections,
		Match:       env.matches,
		Message:     &stubMessageRepo{},
	}

	cfg := config.GameConfig{
		FreeTimeDuration:      180,
		SelectionTimeDuration: 120,
		RoomCodeLength:        6,
		MaxTotalRounds:        10,
	}
	wsManager := NewWebSocketManager(&stubMessageRepo{})

	env.timer = NewTimerEngine()
	env.timer.now = env.clock.Now

	env.questionSvc = NewQuestionService(env.questions, env.rounds)
	env.matchSvc = NewMatchService(env.rounds, env.participants, env.selections, env.matches)
	env.selectionSvc = NewSelectionService(env.rounds, env.participants, env.selections)
	env.roundSvc = NewRoundService(env.repos, env.questionSvc, env.matchSvc, env.timer, wsManager, cfg)
	env.roundSvc.now = env.clock.Now
	env.roomSvc = NewRoomService(env.repos, wsManager, cfg)
	env.statsSvc = NewStatsService(env.repos)
	return env
}

// seedQuestions 為每個分類各建立 count 道題目
func (env *testEnv) seedQuestions(count int) {
	for _, category := range models.AllCategories() {
		for i := 0; i < count; i++ {
			env.questions.Create(&models.Question{
				Content:    fmt.Sprintf("%s 題目 %d", category, i+1),
				Category:   category,
				Difficulty: 1,
			})
		}
	}
}

// seedRoom 建立一個進行中的房間與指定數量的參加者，第一位是房主
// 參加者的 UserID 為 100+序號
func (env *testEnv) seedRoom(totalRounds, participantCount int) (*models.Room, []*models.Participant) {
	room := &models.Room{
		Code:            "ABCDEF",
		MaxParticipants: 8,
		TotalRounds:     totalRounds,
		Status:          models.RoomStatusInProgress,
	}
	env.rooms.Create(room)

	genders := []models.Gender{models.GenderMale, models.GenderFemale}
	participants := make([]*models.Participant, 0, participantCount)
	for i := 0; i < participantCount; i++ {
		p := &models.Participant{
			RoomID:   room.ID,
			UserID:   uint(100 + i),
			Nickname: fmt.Sprintf("玩家%d", i+1),
			Gender:   genders[i%2],
			Status:   models.ParticipantStatusPlaying,
		}
		env.participants.Create(p)
		participants = append(participants, p)
	}

	room.HostID = &participants[0].ID
	env.rooms.Update(room)
	return room, participants
}

// seedActiveRound 直接建立一個進行中的回合，預設處於 selection_time
func (env *testEnv) seedActiveRound(room *models.Room, roundNumber int, status models.RoundStatus) *models.Round {
	now := env.clock.Now()
	round := &models.Round{
		RoomID:                room.ID,
		RoundNumber:           roundNumber,
		Status:                status,
		StartedAt:             &now,
		FreeTimeStartedAt:     &now,
		FreeTimeDuration:      180,
		SelectionTimeDuration: 120,
	}
	if status == models.RoundStatusSelectionTime || status == models.RoundStatusCompleted {
		round.SelectionTimeStartedAt = &now
	}
	env.rounds.Create(round)
	return round
}

func uintPtr(v uint) *uint { return &v }
