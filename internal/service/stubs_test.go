package service

import (
	"gorm.io/gorm"

	"heartsignal_web/internal/models"
)

// 測試用的記憶體 repository，實作與正式版相同的介面

type stubRoomRepo struct {
	rooms  map[uint]*models.Room
	nextID uint
}

func newStubRoomRepo() *stubRoomRepo {
	return &stubRoomRepo{rooms: make(map[uint]*models.Room), nextID: 1}
}

func (r *stubRoomRepo) Create(room *models.Room) error {
	room.ID = r.nextID
	r.nextID++
	copied := *room
	r.rooms[room.ID] = &copied
	return nil
}

func (r *stubRoomRepo) FindByID(id uint) (*models.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *room
	return &copied, nil
}

func (r *stubRoomRepo) FindByCode(code string) (*models.Room, error) {
	for _, room := range r.rooms {
		if room.Code == code {
			copied := *room
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRoomRepo) Update(room *models.Room) error {
	copied := *room
	r.rooms[room.ID] = &copied
	return nil
}

func (r *stubRoomRepo) Delete(id uint) error {
	delete(r.rooms, id)
	return nil
}

func (r *stubRoomRepo) FindAll() ([]models.Room, error) {
	out := []models.Room{}
	for _, room := range r.rooms {
		out = append(out, *room)
	}
	return out, nil
}

type stubParticipantRepo struct {
	participants map[uint]*models.Participant
	nextID       uint
}

func newStubParticipantRepo() *stubParticipantRepo {
	return &stubParticipantRepo{participants: make(map[uint]*models.Participant), nextID: 1}
}

func (r *stubParticipantRepo) Create(p *models.Participant) error {
	p.ID = r.nextID
	r.nextID++
	copied := *p
	r.participants[p.ID] = &copied
	return nil
}

func (r *stubParticipantRepo) FindByID(id uint) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *stubParticipantRepo) FindByRoomID(roomID uint) ([]models.Participant, error) {
	out := []models.Participant{}
	// 依 ID 升冪，模擬加入順序
	for id := uint(1); id < r.nextID; id++ {
		if p, ok := r.participants[id]; ok && p.RoomID == roomID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubParticipantRepo) FindByRoomAndUser(roomID, userID uint) (*models.Participant, error) {
	for _, p := range r.participants {
		if p.RoomID == roomID && p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubParticipantRepo) Update(p *models.Participant) error {
	copied := *p
	r.participants[p.ID] = &copied
	return nil
}

func (r *stubParticipantRepo) Delete(id uint) error {
	delete(r.participants, id)
	return nil
}

func (r *stubParticipantRepo) CountByRoomID(roomID uint) (int64, error) {
	var count int64
	for _, p := range r.participants {
		if p.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

type stubRoundRepo struct {
	rounds map[uint]*models.Round
	nextID uint
}

func newStubRoundRepo() *stubRoundRepo {
	return &stubRoundRepo{rounds: make(map[uint]*models.Round), nextID: 1}
}

func (r *stubRoundRepo) Create(round *models.Round) error {
	round.ID = r.nextID
	r.nextID++
	copied := *round
	r.rounds[round.ID] = &copied
	return nil
}

func (r *stubRoundRepo) FindByID(id uint) (*models.Round, error) {
	round, ok := r.rounds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *round
	return &copied, nil
}

func (r *stubRoundRepo) FindByRoomID(roomID uint) ([]models.Round, error) {
	out := []models.Round{}
	for id := uint(1); id < r.nextID; id++ {
		if round, ok := r.rounds[id]; ok && round.RoomID == roomID {
			out = append(out, *round)
		}
	}
	return out, nil
}

func (r *stubRoundRepo) FindByRoomAndNumber(roomID uint, roundNumber int) (*models.Round, error) {
	for _, round := range r.rounds {
		if round.RoomID == roomID && round.RoundNumber == roundNumber {
			copied := *round
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRoundRepo) FindActiveByRoomID(roomID uint) (*models.Round, error) {
	for _, round := range r.rounds {
		if round.RoomID == roomID && round.IsActive() {
			copied := *round
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRoundRepo) Update(round *models.Round) error {
	copied := *round
	r.rounds[round.ID] = &copied
	return nil
}

func (r *stubRoundRepo) UsedQuestionIDs(roomID uint) ([]uint, error) {
	var ids []uint
	for _, round := range r.rounds {
		if round.RoomID == roomID && round.QuestionID != 0 {
			ids = append(ids, round.QuestionID)
		}
	}
	return ids, nil
}

type stubQuestionRepo struct {
	questions []models.Question
}

func (r *stubQuestionRepo) Create(q *models.Question) error {
	q.ID = uint(len(r.questions) + 1)
	r.questions = append(r.questions, *q)
	return nil
}

func (r *stubQuestionRepo) FindByID(id uint) (*models.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			copied := r.questions[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubQuestionRepo) FindByCategories(categories []models.QuestionCategory, excludeIDs []uint) ([]models.Question, error) {
	excluded := make(map[uint]bool)
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	inCategory := make(map[models.QuestionCategory]bool)
	for _, c := range categories {
		inCategory[c] = true
	}

	out := []models.Question{}
	for i := range r.questions {
		if inCategory[r.questions[i].Category] && !excluded[r.questions[i].ID] {
			out = append(out, r.questions[i])
		}
	}
	return out, nil
}

func (r *stubQuestionRepo) FindAllExcluding(excludeIDs []uint) ([]models.Question, error) {
	excluded := make(map[uint]bool)
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	out := []models.Question{}
	for i := range r.questions {
		if !excluded[r.questions[i].ID] {
			out = append(out, r.questions[i])
		}
	}
	return out, nil
}

type stubSelectionRepo struct {
	selections map[uint]*models.Selection
	nextID     uint
}

func newStubSelectionRepo() *stubSelectionRepo {
	return &stubSelectionRepo{selections: make(map[uint]*models.Selection), nextID: 1}
}

func (r *stubSelectionRepo) Create(s *models.Selection) error {
	s.ID = r.nextID
	r.nextID++
	copied := *s
	r.selections[s.ID] = &copied
	return nil
}

func (r *stubSelectionRepo) Update(s *models.Selection) error {
	copied := *s
	r.selections[s.ID] = &copied
	return nil
}

func (r *stubSelectionRepo) FindByRoundID(roundID uint) ([]models.Selection, error) {
	out := []models.Selection{}
	for id := uint(1); id < r.nextID; id++ {
		if s, ok := r.selections[id]; ok && s.RoundID == roundID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSelectionRepo) FindByRoundAndSelector(roundID, selectorID uint) (*models.Selection, error) {
	for _, s := range r.selections {
		if s.RoundID == roundID && s.SelectorID == selectorID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSelectionRepo) FindByRoomID(roomID uint) ([]models.Selection, error) {
	// 測試中由呼叫方保證回合都屬於同一房間，直接回傳全部
	out := []models.Selection{}
	for id := uint(1); id < r.nextID; id++ {
		if s, ok := r.selections[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSelectionRepo) CountByRoundID(roundID uint) (int64, error) {
	var count int64
	for _, s := range r.selections {
		if s.RoundID == roundID {
			count++
		}
	}
	return count, nil
}

func (r *stubSelectionRepo) DeleteByParticipant(participantID uint) error {
	for id, s := range r.selections {
		if s.SelectorID == participantID || (s.SelectedID != nil && *s.SelectedID == participantID) {
			delete(r.selections, id)
		}
	}
	return nil
}

type stubMatchRepo struct {
	matches map[uint]*models.Match
	nextID  uint
}

func newStubMatchRepo() *stubMatchRepo {
	return &stubMatchRepo{matches: make(map[uint]*models.Match), nextID: 1}
}

func (r *stubMatchRepo) Create(m *models.Match) error {
	m.ID = r.nextID
	r.nextID++
	copied := *m
	r.matches[m.ID] = &copied
	return nil
}

func (r *stubMatchRepo) FindByRoomID(roomID uint) ([]models.Match, error) {
	out := []models.Match{}
	for id := uint(1); id < r.nextID; id++ {
		if m, ok := r.matches[id]; ok && m.RoomID == roomID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMatchRepo) FindByRoundID(roundID uint) ([]models.Match, error) {
	out := []models.Match{}
	for id := uint(1); id < r.nextID; id++ {
		if m, ok := r.matches[id]; ok && m.RoundID == roundID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMatchRepo) FindByRoomAndPair(roomID, a, b uint) (*models.Match, error) {
	for _, m := range r.matches {
		if m.RoomID != roomID {
			continue
		}
		if (m.Participant1ID == a && m.Participant2ID == b) || (m.Participant1ID == b && m.Participant2ID == a) {
			copied := *m
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMatchRepo) DeleteByParticipant(roomID, participantID uint) error {
	for id, m := range r.matches {
		if m.RoomID == roomID && m.HasParticipant(participantID) {
			delete(r.matches, id)
		}
	}
	return nil
}

type stubMessageRepo struct {
	messages []models.Message
}

func (r *stubMessageRepo) Create(m *models.Message) error {
	m.ID = uint(len(r.messages) + 1)
	r.messages = append(r.messages, *m)
	return nil
}

func (r *stubMessageRepo) FindByRoomID(roomID uint) ([]models.Message, error) {
	out := []models.Message{}
	for i := range r.messages {
		if r.messages[i].RoomID == roomID {
			out = append(out, r.messages[i])
		}
	}
	return out, nil
}
