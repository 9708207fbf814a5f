package api

import (
	"net/http"

	"github.com/NaveedSindha/health-wellness-tracker/internal/auth"
	"github.com/NaveedSindha/health-wellness-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

func GetScore(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		date, err := parseDateParam(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid date")
			return
		}

		log, err := app.LogRepo().GetLog(c.Request.Context(), user.ID, date)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch log for score")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, gin.H{
			"date":         c.Param("date"),
			"health_score": service.CalculateHealthScore(*log),
			"components":   service.ScoreBreakdown(*log),
		}, nil)
	}
}

func GetAnalytics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		granularity, err := service.ParseGranularity(c.Query("granularity"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid granularity")
			return
		}

		logs, err := app.LogRepo().ListLogs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch logs for analytics")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, service.Aggregate(logs, granularity),
			map[string]any{"granularity": granularity})
	}
}
