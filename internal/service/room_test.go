package service

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"heartsignal_web/internal/models"
	"heartsignal_web/pkg/config"
)

func TestCreateRoom(t *testing.T) {
	env := newTestEnv()

	room, host, err := env.roomSvc.CreateRoom(100, 6, 3, JoinRoomInput{
		Nickname: "小明",
		Gender:   models.GenderMale,
		MBTI:     "entp",
	})
	if err != nil {
		t.Fatalf("建立房間失敗: %v", err)
	}
	if len(room.Code) != 6 {
		t.Fatalf("房間代碼長度錯誤: %q", room.Code)
	}
	if room.Status != models.RoomStatusWaiting {
		t.Fatalf("新房間應處於 waiting，實際 %s", room.Status)
	}
	if room.HostID == nil || *room.HostID != host.ID {
		t.Fatal("建立者應成為房主")
	}
	if host.Status != models.ParticipantStatusJoined {
		t.Fatalf("建立者狀態錯誤: %s", host.Status)
	}
	if host.MBTI != "ENTP" {
		t.Fatalf("MBTI 應轉為大寫，實際 %q", host.MBTI)
	}
}

func TestCreateRoomClampsConfig(t *testing.T) {
	env := newTestEnv()

	// 回合數超過上限時被限制在 MaxTotalRounds
	room, _, err := env.roomSvc.CreateRoom(100, 1, 99, JoinRoomInput{Nickname: "小明", Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("建立房間失敗: %v", err)
	}
	if room.TotalRounds != 10 {
		t.Fatalf("回合數應被限制在 10，實際 %d", room.TotalRounds)
	}
	if room.MaxParticipants != 2 {
		t.Fatalf("人數下限應為 2，實際 %d", room.MaxParticipants)
	}
}

func TestJoinRoom(t *testing.T) {
	env := newTestEnv()
	room, _, err := env.roomSvc.CreateRoom(100, 4, 3, JoinRoomInput{Nickname: "小明", Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("建立房間失敗: %v", err)
	}

	// 代碼不分大小寫、容許前後空白
	joined, p, err := env.roomSvc.JoinRoom("  "+room.Code+"  ", 101, JoinRoomInput{Nickname: "小美", Gender: models.GenderFemale})
	if err != nil {
		t.Fatalf("加入房間失敗: %v", err)
	}
	if joined.ID != room.ID || p.RoomID != room.ID {
		t.Fatal("加入了錯誤的房間")
	}

	if _, _, err := env.roomSvc.JoinRoom("ZZZZZZ", 102, JoinRoomInput{Nickname: "路人", Gender: models.GenderOther}); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("錯誤代碼應回傳 ErrRoomNotFound，實際 %v", err)
	}
}

func TestJoinRoomFull(t *testing.T) {
	env := newTestEnv()
	room, _, err := env.roomSvc.CreateRoom(100, 2, 3, JoinRoomInput{Nickname: "小明", Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("建立房間失敗: %v", err)
	}
	if _, _, err := env.roomSvc.JoinRoom(room.Code, 101, JoinRoomInput{Nickname: "小美", Gender: models.GenderFemale}); err != nil {
		t.Fatalf("加入房間失敗: %v", err)
	}

	if _, _, err := env.roomSvc.JoinRoom(room.Code, 102, JoinRoomInput{Nickname: "晚到的人", Gender: models.GenderMale}); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("滿員應回傳 ErrRoomFull，實際 %v", err)
	}
}

func TestJoinRoomNotJoinable(t *testing.T) {
	env := newTestEnv()
	room, _ := env.seedRoom(3, 2) // 已在進行中

	if _, _, err := env.roomSvc.JoinRoom(room.Code, 200, JoinRoomInput{Nickname: "晚到的人", Gender: models.GenderMale}); !errors.Is(err, ErrRoomNotJoinable) {
		t.Fatalf("進行中的房間應回傳 ErrRoomNotJoinable，實際 %v", err)
	}
}

func TestStartGame(t *testing.T) {
	env := newTestEnv()
	room, _, err := env.roomSvc.CreateRoom(100, 4, 3, JoinRoomInput{Nickname: "小明", Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("建立房間失敗: %v", err)
	}

	// 只有房主一人
	if _, err := env.roomSvc.StartGame(room.ID, 100); !errors.Is(err, ErrInsufficientParticipants) {
		t.Fatalf("一人房應回傳 ErrInsufficientParticipants，實際 %v", err)
	}

	if _, _, err := env.roomSvc.JoinRoom(room.Code, 101, JoinRoomInput{Nickname: "小美", Gender: models.GenderFemale}); err != nil {
		t.Fatalf("加入房間失敗: %v", err)
	}

	// 尚未全員準備
	if _, err := env.roomSvc.StartGame(room.ID, 100); !errors.Is(err, ErrNotAllReady) {
		t.Fatalf("未全員準備應回傳 ErrNotAllReady，實際 %v", err)
	}

	if _, err := env.roomSvc.SetReady(room.ID, 100, true); err != nil {
		t.Fatalf("設定準備失敗: %v", err)
	}
	if _, err := env.roomSvc.SetReady(room.ID, 101, true); err != nil {
		t.Fatalf("設定準備失敗: %v", err)
	}

	// 非房主不能開始
	if _, err := env.roomSvc.StartGame(room.ID, 101); !errors.Is(err, ErrNotHost) {
		t.Fatalf("非房主應回傳 ErrNotHost，實際 %v", err)
	}

	started, err := env.roomSvc.StartGame(room.ID, 100)
	if err != nil {
		t.Fatalf("開始遊戲失敗: %v", err)
	}
	if started.Status != models.RoomStatusInProgress {
		t.Fatalf("房間應進入 in_progress，實際 %s", started.Status)
	}

	participants, err := env.roomSvc.GetParticipants(room.ID)
	if err != nil {
		t.Fatalf("查詢參加者失敗: %v", err)
	}
	for _, p := range participants {
		if p.Status != models.ParticipantStatusPlaying {
			t.Fatalf("參加者 %d 應為 playing，實際 %s", p.ID, p.Status)
		}
	}

	// 遊戲開始後不能重複開始，也不能再切換準備狀態
	if _, err := env.roomSvc.StartGame(room.ID, 100); !errors.Is(err, ErrGameAlreadyBegun) {
		t.Fatalf("重複開始應回傳 ErrGameAlreadyBegun，實際 %v", err)
	}
	if _, err := env.roomSvc.SetReady(room.ID, 101, false); !errors.Is(err, ErrGameAlreadyBegun) {
		t.Fatalf("開始後切換準備應回傳 ErrGameAlreadyBegun，實際 %v", err)
	}
}

func TestLeaveRoomTransfersHost(t *testing.T) {
	env := newTestEnv()
	room, _, err := env.roomSvc.CreateRoom(100, 4, 3, JoinRoomInput{Nickname: "小明", Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("建立房間失敗: %v", err)
	}
	_, second, err := env.roomSvc.JoinRoom(room.Code, 101, JoinRoomInput{Nickname: "小美", Gender: models.GenderFemale})
	if err != nil {
		t.Fatalf("加入房間失敗: %v", err)
	}

	if err := env.roomSvc.LeaveRoom(room.ID, 100); err != nil {
		t.Fatalf("離開房間失敗: %v", err)
	}

	updated, err := env.roomSvc.GetRoom(room.ID)
	if err != nil {
		t.Fatalf("查詢房間失敗: %v", err)
	}
	if updated.HostID == nil || *updated.HostID != second.ID {
		t.Fatal("房主應移交給最早加入的剩餘參加者")
	}
}

func TestLeaveRoomLastParticipantCancels(t *testing.T) {
	env := newTestEnv()
	room, _, err := env.roomSvc.CreateRoom(100, 4, 3, JoinRoomInput{Nickname: "小明", Gender: models.GenderMale})
	if err != nil {
		t.Fatalf("建立房間失敗: %v", err)
	}

	if err := env.roomSvc.LeaveRoom(room.ID, 100); err != nil {
		t.Fatalf("離開房間失敗: %v", err)
	}

	updated, err := env.roomSvc.GetRoom(room.ID)
	if err != nil {
		t.Fatalf("查詢房間失敗: %v", err)
	}
	if updated.Status != models.RoomStatusCancelled || updated.HostID != nil {
		t.Fatalf("空房間應被取消: status=%s hostID=%v", updated.Status, updated.HostID)
	}
}

func TestLeaveRoomCleansUpSelectionsAndMatches(t *testing.T) {
	env := newTestEnv()
	room, ps := env.seedRoom(3, 3)
	round := env.seedActiveRound(room, 1, models.RoundStatusSelectionTime)

	submitSelection(t, env, round.ID, ps[0].ID, SelectionInput{SelectedID: uintPtr(ps[1].ID)})
	submitSelection(t, env, round.ID, ps[1].ID, SelectionInput{SelectedID: uintPtr(ps[0].ID)})
	if _, err := env.matchSvc.DetectMatches(round.ID); err != nil {
		t.Fatalf("配對偵測失敗: %v", err)
	}

	if err := env.roomSvc.LeaveRoom(room.ID, ps[1].UserID); err != nil {
		t.Fatalf("離開房間失敗: %v", err)
	}

	selections, _ := env.selections.FindByRoundID(round.ID)
	for _, s := range selections {
		if s.SelectorID == ps[1].ID || (s.SelectedID != nil && *s.SelectedID == ps[1].ID) {
			t.Fatalf("離開者的指名未清除: %+v", s)
		}
	}
	matches, _ := env.matches.FindByRoomID(room.ID)
	if len(matches) != 0 {
		t.Fatalf("離開者的配對未清除: %d", len(matches))
	}
}

func TestTransferHost(t *testing.T) {
	env := newTestEnv()
	room, ps := env.seedRoom(3, 2)

	if err := env.roomSvc.TransferHost(room.ID, ps[0].UserID, ps[1].ID); err != nil {
		t.Fatalf("移交房主失敗: %v", err)
	}

	updated, _ := env.roomSvc.GetRoom(room.ID)
	if updated.HostID == nil || *updated.HostID != ps[1].ID {
		t.Fatal("房主未移交")
	}

	// 原房主已不是房主
	if env.roomSvc.IsHost(room.ID, ps[0].UserID) {
		t.Fatal("原房主不應仍是房主")
	}
	if !env.roomSvc.IsHost(room.ID, ps[1].UserID) {
		t.Fatal("新房主檢查失敗")
	}
}

// conflictParticipantRepo 模擬加入房間時輸掉暱稱／角色唯一索引競爭的情況
type conflictParticipantRepo struct {
	*stubParticipantRepo
	constraint string
}

func (r *conflictParticipantRepo) Create(p *models.Participant) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: r.constraint}
}

func TestJoinRoomUniqueViolationTranslation(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"idx_participants_room_nickname", ErrNicknameTaken},
		{"idx_participants_room_character", ErrCharacterTaken},
	}

	for _, tt := range tests {
		env := newTestEnv()
		room := &models.Room{
			Code:            "JOINME",
			MaxParticipants: 4,
			TotalRounds:     3,
			Status:          models.RoomStatusWaiting,
		}
		env.rooms.Create(room)

		repos := *env.repos
		repos.Participant = &conflictParticipantRepo{env.participants, tt.constraint}
		svc := NewRoomService(&repos, NewWebSocketManager(&stubMessageRepo{}),
			config.GameConfig{RoomCodeLength: 6, MaxTotalRounds: 10})

		_, _, err := svc.JoinRoom("JOINME", 200, JoinRoomInput{
			Nickname:  "重複者",
			Gender:    models.GenderMale,
			Character: "主持人",
		})
		if !errors.Is(err, tt.want) {
			t.Fatalf("約束 %s 的衝突應翻譯成 %v，實際 %v", tt.constraint, tt.want, err)
		}
	}
}

func TestUpdatePresence(t *testing.T) {
	env := newTestEnv()
	room, ps := env.seedRoom(3, 2)

	// 遊戲中斷線 ⇒ 暫離
	if err := env.roomSvc.UpdatePresence(room.ID, ps[1].UserID, false); err != nil {
		t.Fatalf("更新在席狀態失敗: %v", err)
	}
	p, _ := env.participants.FindByID(ps[1].ID)
	if p.Status != models.ParticipantStatusAway {
		t.Fatalf("斷線後應為 temporarily_away，實際 %s", p.Status)
	}

	// 重新連線 ⇒ 恢復遊戲中
	if err := env.roomSvc.UpdatePresence(room.ID, ps[1].UserID, true); err != nil {
		t.Fatalf("更新在席狀態失敗: %v", err)
	}
	p, _ = env.participants.FindByID(ps[1].ID)
	if p.Status != models.ParticipantStatusPlaying {
		t.Fatalf("重連後應恢復 playing，實際 %s", p.Status)
	}
}

func TestUpdatePresenceUnknownParticipant(t *testing.T) {
	env := newTestEnv()
	room, _ := env.seedRoom(3, 2)

	if err := env.roomSvc.UpdatePresence(room.ID, 999, false); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("未加入房間的用戶應回傳 ErrParticipantNotFound，實際 %v", err)
	}
}

func TestUpdatePresenceIgnoresNonPlaying(t *testing.T) {
	env := newTestEnv()
	room, ps := env.seedRoom(3, 2)
	ps[0].Status = models.ParticipantStatusFinished
	env.participants.Update(ps[0])

	if err := env.roomSvc.UpdatePresence(room.ID, ps[0].UserID, false); err != nil {
		t.Fatalf("更新在席狀態失敗: %v", err)
	}
	p, _ := env.participants.FindByID(ps[0].ID)
	if p.Status != models.ParticipantStatusFinished {
		t.Fatalf("遊戲外的狀態不應被改動，實際 %s", p.Status)
	}
}

func TestCancelRoom(t *testing.T) {
	env := newTestEnv()
	room, ps := env.seedRoom(3, 2)

	if err := env.roomSvc.CancelRoom(room.ID, ps[1].UserID); !errors.Is(err, ErrNotHost) {
		t.Fatalf("非房主取消應回傳 ErrNotHost，實際 %v", err)
	}
	if err := env.roomSvc.CancelRoom(room.ID, ps[0].UserID); err != nil {
		t.Fatalf("取消房間失敗: %v", err)
	}

	updated, _ := env.roomSvc.GetRoom(room.ID)
	if updated.Status != models.RoomStatusCancelled {
		t.Fatalf("房間應為 cancelled，實際 %s", updated.Status)
	}
}
