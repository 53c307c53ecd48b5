package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heartsignal_web/internal/api/handlers"
	"heartsignal_web/internal/middleware"
	"heartsignal_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.UserService)
	roomHandler := handlers.NewRoomHandler(services.RoomService, services.WebSocketManager)
	roundHandler := handlers.NewRoundHandler(services.RoundService)
	selectionHandler := handlers.NewSelectionHandler(services.SelectionService, services.MatchService, services.RoomService)
	statsHandler := handlers.NewStatsHandler(services.StatsService)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager, services.RoomService)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 遊戲房間相關
		rooms := authorized.Group("/rooms")
		{
			// 基本操作
			rooms.GET("", roomHandler.ListRooms)
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.GET("/code/:code", roomHandler.GetRoomByCode)
			rooms.GET("/:id/messages", roomHandler.GetMessages)

			// 房間參與，start/cancel/transfer-host 僅限房主
			rooms.POST("/join", roomHandler.JoinRoom)
			rooms.POST("/:id/leave", roomHandler.LeaveRoom)
			rooms.POST("/:id/ready", roomHandler.SetReady)
			rooms.POST("/:id/start", roomHandler.StartGame)
			rooms.POST("/:id/cancel", roomHandler.CancelRoom)
			rooms.POST("/:id/transfer-host", roomHandler.TransferHost)

			// 回合生命週期，sync 與 timer 之外僅限房主
			rooms.GET("/:id/rounds", roundHandler.GetRounds)
			rooms.POST("/:id/rounds", roundHandler.StartRound)
			rooms.POST("/:id/rounds/:roundId/selection-time", roundHandler.StartSelectionTime)
			rooms.POST("/:id/rounds/:roundId/end", roundHandler.EndRound)
			rooms.POST("/:id/rounds/:roundId/pause", roundHandler.PauseRound)
			rooms.POST("/:id/rounds/:roundId/resume", roundHandler.ResumeRound)
			rooms.POST("/:id/rounds/:roundId/sync", roundHandler.SyncPhase)
			rooms.GET("/:id/rounds/:roundId/timer", roundHandler.GetTimer)

			// 指名與配對
			rooms.POST("/:id/rounds/:roundId/selections", selectionHandler.Submit)
			rooms.PUT("/:id/rounds/:roundId/selections", selectionHandler.Update)
			rooms.GET("/:id/rounds/:roundId/selections", selectionHandler.GetRoundSelections)
			rooms.GET("/:id/rounds/:roundId/matches", selectionHandler.GetRoundMatches)
			rooms.POST("/:id/rounds/:roundId/matches", selectionHandler.DetectMatches)
			rooms.GET("/:id/rounds/:roundId/readiness", selectionHandler.ValidateDetection)

			// 最終結果
			rooms.GET("/:id/results", statsHandler.GetFinalResults)

			// WebSocket 連接點
			rooms.GET("/:id/ws", wsHandler.HandleWebSocket)
		}
	}
}
