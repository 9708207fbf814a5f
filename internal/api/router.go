package api

import (
	"net/http"

	"github.com/NaveedSindha/health-wellness-tracker/internal/auth"
	"github.com/NaveedSindha/health-wellness-tracker/internal/ratelimit"
	"github.com/NaveedSindha/health-wellness-tracker/internal/response"
	"github.com/gin-gonic/gin"
)

func NewRouter(app App, provider auth.Provider, limiter ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(app.Logger()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.NotFound("Route not found"))
	})

	// Protected routes
	private := r.Group("/")
	private.Use(auth.AuthMiddleware(provider), ratelimit.RateLimitByUser(limiter, app.Logger()))

	private.POST("/log", PostLog(app))
	private.GET("/logs", GetLogs(app))
	private.GET("/log/:date", GetLog(app))
	private.PUT("/log/:date", PutLog(app))
	private.DELETE("/log/:date", DeleteLog(app))

	private.GET("/api/goals", GetGoals(app))
	private.POST("/api/goals", PostGoal(app))
	private.DELETE("/api/goals/:id", DeleteGoal(app))

	private.GET("/api/score/:date", GetScore(app))
	private.GET("/api/analytics", GetAnalytics(app))

	return r
}
