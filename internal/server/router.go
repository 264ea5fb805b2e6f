package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AnalyzeHandler *AnalyzeHandler
	HealthHandler  *HealthHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("[Server] Recovered from panic", slog.Any("panic", recovered))
		RespondError(c, http.StatusInternalServerError, msgUnexpected)
	}))
	router.Use(requestLog())
	router.Use(CORS(cfg.AllowOrigins...))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	router.POST("/analyze_journal", cfg.AnalyzeHandler.AnalyzeJournal)

	return router
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("[Server] Request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}
