package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"heartsignal_web/internal/service"
)

// respondServiceError 將核心的錯誤種類轉換成對應的 HTTP 狀態碼
// 驗證錯誤、狀態錯誤與授權錯誤各自對應不同的狀態碼，讓前端能顯示不同的訊息
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrRoundNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrSelectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrNotHost):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrRoundAlreadyActive),
		errors.Is(err, service.ErrRoundAlreadyCompleted),
		errors.Is(err, service.ErrDuplicateSelection),
		errors.Is(err, service.ErrNicknameTaken),
		errors.Is(err, service.ErrCharacterTaken),
		errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrGameAlreadyBegun),
		errors.Is(err, service.ErrRoundPaused),
		errors.Is(err, service.ErrRoundNotPaused):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrRoundNotActive),
		errors.Is(err, service.ErrCrossRoomSelection),
		errors.Is(err, service.ErrSelfSelection),
		errors.Is(err, service.ErrInvalidSelection),
		errors.Is(err, service.ErrRoomNotJoinable),
		errors.Is(err, service.ErrGameNotStarted),
		errors.Is(err, service.ErrInsufficientParticipants),
		errors.Is(err, service.ErrNotAllReady),
		errors.Is(err, service.ErrInvalidRoundNumber),
		errors.Is(err, service.ErrNoQuestionsAvailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "伺服器發生錯誤"})
	}
}
