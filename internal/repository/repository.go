package repository

import "heartsignal_web/internal/storage"

type Repositories struct {
	User        UserRepository
	Room        RoomRepository
	Participant ParticipantRepository
	Round       RoundRepository
	Question    QuestionRepository
	Selection   SelectionRepository
	Match       MatchRepository
	Message     MessageRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Room:        NewRoomRepository(db),
		Participant: NewParticipantRepository(db),
		Round:       NewRoundRepository(db),
		Question:    NewQuestionRepository(db),
		Selection:   NewSelectionRepository(db),
		Match:       NewMatchRepository(db),
		Message:     NewMessageRepository(db),
	}
}
