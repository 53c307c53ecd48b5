package service

import (
	"heartsignal_web/internal/repository"
	"heartsignal_web/pkg/config"
)

type Services struct {
	UserService      *UserService
	RoomService      *RoomService
	RoundService     *RoundService
	SelectionService *SelectionService
	MatchService     *MatchService
	QuestionService  *QuestionService
	StatsService     *StatsService
	TimerEngine      *TimerEngine
	WebSocketManager *WebSocketManager
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	wsManager := NewWebSocketManager(repos.Message)
	timer := NewTimerEngine()

	userService := NewUserService(repos.User)
	roomService := NewRoomService(repos, wsManager, cfg.Game)
	questionService := NewQuestionService(repos.Question, repos.Round)
	selectionService := NewSelectionService(repos.Round, repos.Participant, repos.Selection)
	matchService := NewMatchService(repos.Round, repos.Participant, repos.Selection, repos.Match)
	statsService := NewStatsService(repos)
	roundService := NewRoundService(repos, questionService, matchService, timer, wsManager, cfg.Game)

	return &Services{
		UserService:      userService,
		RoomService:      roomService,
		RoundService:     roundService,
		SelectionService: selectionService,
		MatchService:     matchService,
		QuestionService:  questionService,
		StatsService:     statsService,
		TimerEngine:      timer,
		WebSocketManager: wsManager,
	}
}
