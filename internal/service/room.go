package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"heartsignal_web/internal/models"
	"heartsignal_web/internal/repository"
	"heartsignal_web/internal/utils"
	"heartsignal_web/pkg/config"
)

// 房間代碼生成碰撞時的最大重試次數
const maxCodeRetries = 5

// JoinRoomInput 是加入房間時的個人資料
type JoinRoomInput struct {
	Nickname  string        `json:"nickname"`
	Gender    models.Gender `json:"gender"`
	MBTI      string        `json:"mbti"`
	Character string        `json:"character"`
}

// RoomService 負責房間與參加者的生命週期
type RoomService struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	selectionRepo   repository.SelectionRepository
	matchRepo       repository.MatchRepository
	wsManager       *WebSocketManager
	cfg             config.GameConfig
}

func NewRoomService(repos *repository.Repositories, wsManager *WebSocketManager, cfg config.GameConfig) *RoomService {
	return &RoomService{
		roomRepo:        repos.Room,
		participantRepo: repos.Participant,
		selectionRepo:   repos.Selection,
		matchRepo:       repos.Match,
		wsManager:       wsManager,
		cfg:             cfg,
	}
}

// CreateRoom 建立房間並讓建立者以房主身份加入
func (s *RoomService) CreateRoom(userID uint, maxParticipants, totalRounds int, host JoinRoomInput) (*models.Room, *models.Participant, error) {
	if totalRounds < 1 {
		totalRounds = 1
	}
	if s.cfg.MaxTotalRounds > 0 && totalRounds > s.cfg.MaxTotalRounds {
		totalRounds = s.cfg.MaxTotalRounds
	}
	if maxParticipants < 2 {
		maxParticipants = 2
	}

	var room *models.Room
	for attempt := 0; ; attempt++ {
		code, err := utils.GenerateCode(s.cfg.RoomCodeLength)
		if err != nil {
			return nil, nil, err
		}

		room = &models.Room{
			Code:            code,
			MaxParticipants: maxParticipants,
			TotalRounds:     totalRounds,
			Status:          models.RoomStatusWaiting,
		}
		err = s.roomRepo.Create(room)
		if err == nil {
			break
		}
		// 代碼碰撞時重新生成
		if isUniqueViolation(err) && attempt < maxCodeRetries {
			continue
		}
		return nil, nil, err
	}

	participant, err := s.addParticipant(room, userID, host)
	if err != nil {
		return nil, nil, err
	}

	room.HostID = &participant.ID
	if err := s.roomRepo.Update(room); err != nil {
		return nil, nil, err
	}
	return room, participant, nil
}

// JoinRoom 以房間代碼加入，暱稱與角色在房間內不可重複
func (s *RoomService) JoinRoom(code string, userID uint, input JoinRoomInput) (*models.Room, *models.Participant, error) {
	room, err := s.roomRepo.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	if !room.CanJoin() {
		return nil, nil, ErrRoomNotJoinable
	}

	count, err := s.participantRepo.CountByRoomID(room.ID)
	if err != nil {
		return nil, nil, err
	}
	if int(count) >= room.MaxParticipants {
		return nil, nil, ErrRoomFull
	}

	participant, err := s.addParticipant(room, userID, input)
	if err != nil {
		return nil, nil, err
	}

	s.wsManager.BroadcastSystemMessage(room.ID,
		fmt.Sprintf("%s 加入了房間", participant.Nickname))
	return room, participant, nil
}

// LeaveRoom 永久離開房間
// 參加者的指名與配對一併清除；房主離開時房主移交給最早加入的剩餘參加者
func (s *RoomService) LeaveRoom(roomID, userID uint) error {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	participant, err := s.participantRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	if err := s.selectionRepo.DeleteByParticipant(participant.ID); err != nil {
		return err
	}
	if err := s.matchRepo.DeleteByParticipant(roomID, participant.ID); err != nil {
		return err
	}
	if err := s.participantRepo.Delete(participant.ID); err != nil {
		return err
	}

	wasHost := room.HostID != nil && *room.HostID == participant.ID

	remaining, err := s.participantRepo.FindByRoomID(roomID)
	if err != nil {
		return err
	}

	if len(remaining) == 0 {
		// 空房間直接取消
		if !room.IsFinished() {
			room.Status = models.RoomStatusCancelled
		}
		room.HostID = nil
		return s.roomRepo.Update(room)
	}

	if wasHost {
		newHost := remaining[0]
		room.HostID = &newHost.ID
		if err := s.roomRepo.Update(room); err != nil {
			return err
		}
		s.wsManager.BroadcastSystemMessage(roomID,
			fmt.Sprintf("%s 成為新房主", newHost.Nickname))
	}

	s.wsManager.BroadcastSystemMessage(roomID,
		fmt.Sprintf("%s 離開了房間", participant.Nickname))
	return nil
}

// TransferHost 房主主動移交給指定參加者
func (s *RoomService) TransferHost(roomID, userID, targetParticipantID uint) error {
	room, err := s.requireHost(roomID, userID)
	if err != nil {
		return err
	}

	target, err := s.participantRepo.FindByID(targetParticipantID)
	if err != nil || target.RoomID != roomID {
		return ErrParticipantNotFound
	}

	room.HostID = &target.ID
	if err := s.roomRepo.Update(room); err != nil {
		return err
	}

	s.wsManager.BroadcastSystemMessage(roomID,
		fmt.Sprintf("%s 成為新房主", target.Nickname))
	return nil
}

// SetReady 切換準備狀態，只在房間等待開始時有效
func (s *RoomService) SetReady(roomID, userID uint, ready bool) (*models.Participant, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Status != models.RoomStatusWaiting {
		return nil, ErrGameAlreadyBegun
	}

	participant, err := s.participantRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	if ready {
		participant.Status = models.ParticipantStatusReady
	} else {
		participant.Status = models.ParticipantStatusJoined
	}
	if err := s.participantRepo.Update(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// StartGame 開始遊戲：需要房主、至少兩位參加者且全員準備就緒
func (s *RoomService) StartGame(roomID, userID uint) (*models.Room, error) {
	room, err := s.requireHost(roomID, userID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusWaiting {
		return nil, ErrGameAlreadyBegun
	}

	participants, err := s.participantRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}
	for i := range participants {
		if participants[i].Status != models.ParticipantStatusReady {
			return nil, ErrNotAllReady
		}
	}

	room.Status = models.RoomStatusInProgress
	if err := s.roomRepo.Update(room); err != nil {
		return nil, err
	}

	for i := range participants {
		participants[i].Status = models.ParticipantStatusPlaying
		if err := s.participantRepo.Update(&participants[i]); err != nil {
			return nil, err
		}
	}

	s.wsManager.BroadcastSystemMessage(roomID, "遊戲開始")
	return room, nil
}

// UpdatePresence 依連線狀態更新遊戲中參加者的在席標記
// 斷線的參加者標記為暫離，重新連上後恢復為遊戲中；遊戲外的狀態不受影響
func (s *RoomService) UpdatePresence(roomID, userID uint, online bool) error {
	participant, err := s.participantRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	switch {
	case !online && participant.Status == models.ParticipantStatusPlaying:
		participant.Status = models.ParticipantStatusAway
	case online && participant.Status == models.ParticipantStatusAway:
		participant.Status = models.ParticipantStatusPlaying
	default:
		return nil
	}

	if err := s.participantRepo.Update(participant); err != nil {
		return err
	}

	if participant.Status == models.ParticipantStatusAway {
		s.wsManager.BroadcastSystemMessage(roomID,
			fmt.Sprintf("%s 暫時離開", participant.Nickname))
	} else {
		s.wsManager.BroadcastSystemMessage(roomID,
			fmt.Sprintf("%s 回來了", participant.Nickname))
	}
	return nil
}

// CancelRoom 在完成之前的任何時點取消房間
func (s *RoomService) CancelRoom(roomID, userID uint) error {
	room, err := s.requireHost(roomID, userID)
	if err != nil {
		return err
	}
	if room.Status == models.RoomStatusCompleted {
		return ErrGameAlreadyBegun
	}

	room.Status = models.RoomStatusCancelled
	if err := s.roomRepo.Update(room); err != nil {
		return err
	}

	s.wsManager.BroadcastSystemMessage(roomID, "房間已被取消")
	return nil
}

// GetRoom 查詢房間
func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetRoomByCode 以加入代碼查詢房間
func (s *RoomService) GetRoomByCode(code string) (*models.Room, error) {
	room, err := s.roomRepo.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetParticipants 依加入順序查詢房間內所有參加者
func (s *RoomService) GetParticipants(roomID uint) ([]models.Participant, error) {
	if _, err := s.GetRoom(roomID); err != nil {
		return nil, err
	}
	return s.participantRepo.FindByRoomID(roomID)
}

// IsHost 回報用戶是否為房間的房主（供存取控制使用）
func (s *RoomService) IsHost(roomID, userID uint) bool {
	_, err := s.requireHost(roomID, userID)
	return err == nil
}

// ListRooms 查詢所有房間
func (s *RoomService) ListRooms() ([]models.Room, error) {
	return s.roomRepo.FindAll()
}

// addParticipant 建立參加者，並把唯一索引衝突翻譯成對應的錯誤
func (s *RoomService) addParticipant(room *models.Room, userID uint, input JoinRoomInput) (*models.Participant, error) {
	participant := &models.Participant{
		RoomID:    room.ID,
		UserID:    userID,
		Nickname:  strings.TrimSpace(input.Nickname),
		Gender:    input.Gender,
		MBTI:      strings.ToUpper(strings.TrimSpace(input.MBTI)),
		Character: strings.TrimSpace(input.Character),
		Status:    models.ParticipantStatusJoined,
	}

	if err := s.participantRepo.Create(participant); err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(uniqueConstraintName(err), "character") {
				return nil, ErrCharacterTaken
			}
			return nil, ErrNicknameTaken
		}
		return nil, err
	}
	return participant, nil
}

// requireHost 確認呼叫者是房間的房主
func (s *RoomService) requireHost(roomID, userID uint) (*models.Room, error) {
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
