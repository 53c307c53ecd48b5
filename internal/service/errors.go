package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// 核心操作統一回傳這些可辨識的錯誤，
// 由 handler 層轉換成對應的 HTTP 狀態碼與用戶訊息
var (
	ErrRoomNotFound     = errors.New("房間不存在")
	ErrRoomNotJoinable  = errors.New("房間不開放加入")
	ErrRoomFull         = errors.New("房間人數已滿")
	ErrNicknameTaken    = errors.New("暱稱已被使用")
	ErrCharacterTaken   = errors.New("角色已被選擇")
	ErrNotHost          = errors.New("只有房主可以執行此操作")
	ErrGameNotStarted   = errors.New("遊戲尚未開始")
	ErrGameAlreadyBegun = errors.New("遊戲已經開始")

	ErrInsufficientParticipants = errors.New("參加者不足兩人")
	ErrNotAllReady              = errors.New("尚有參加者未準備就緒")
	ErrParticipantNotFound      = errors.New("參加者不存在")

	ErrRoundNotFound         = errors.New("回合不存在")
	ErrRoundNotActive        = errors.New("回合不在進行中")
	ErrRoundAlreadyActive    = errors.New("回合已在進行中")
	ErrRoundAlreadyCompleted = errors.New("回合已經結束")
	ErrRoundPaused           = errors.New("回合已暫停")
	ErrRoundNotPaused        = errors.New("回合未暫停")
	ErrInvalidRoundNumber    = errors.New("無效的回合編號")

	ErrCrossRoomSelection = errors.New("不能指名其他房間的參加者")
	ErrSelfSelection      = errors.New("不能指名自己")
	ErrDuplicateSelection = errors.New("本回合已經提交過指名")
	ErrSelectionNotFound  = errors.New("找不到要修改的指名")
	ErrInvalidSelection   = errors.New("必須指名一位參加者或明確棄權")

	ErrNoQuestionsAvailable = errors.New("題庫已無可用題目")
)

// isUniqueViolation 判斷錯誤是否為資料庫唯一性約束衝突
// 併發競爭下以約束衝突作為重複寫入的最終訊號
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// uniqueConstraintName 取出衝突的約束名稱，用於區分同一張表上的多個唯一索引
func uniqueConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
