package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Frida7771/GomokuAI/internal/transport/http/middleware"
)

type RouterDeps struct {
	Games          *GameHandler
	History        *HistoryHandler
	WebSocket      gin.HandlerFunc
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": deps.Games.SessionManager.ActiveSessions(),
		})
	})

	api := router.Group("/api")
	api.POST("/games", deps.Games.CreateGame)

	games := api.Group("/games/:id")
	games.Use(middleware.GameAuthMiddleware())
	{
		games.GET("", deps.Games.GetGame)
		games.DELETE("", deps.Games.Abandon)
		games.POST("/move", deps.Games.MakeMove)
		games.POST("/undo", deps.Games.Undo)
		games.POST("/redo", deps.Games.Redo)
		games.POST("/reset", deps.Games.Reset)
		games.GET("/hint", deps.Games.Hint)
	}

	api.GET("/history", deps.History.GetHistory)
	api.GET("/history/:id", deps.History.GetGameDetails)

	if deps.WebSocket != nil {
		router.GET("/ws", deps.WebSocket)
	}

	return router
}
