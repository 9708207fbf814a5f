package api

import (
	"net/http"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/auth"
	"github.com/NaveedSindha/health-wellness-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

func PostLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.DailyLogRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), internal.ErrBadRequest.WithError(err), "Invalid JSON")
			return
		}
		if err := service.ValidateDailyLogRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, "Validation failed")
			return
		}

		log, err := service.CreateLog(c.Request.Context(), app.LogRepo(), user, &body, app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save log")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusCreated, service.NewLogView(*log), nil)
	}
}

func PutLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		date, err := parseDateParam(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid date")
			return
		}

		var body service.LogFields
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), internal.ErrBadRequest.WithError(err), "Invalid JSON")
			return
		}
		if err := service.ValidateLogFields(&body); err != nil {
			HandleError(c, app.Logger(), err, "Validation failed")
			return
		}

		log, err := service.UpdateLog(c.Request.Context(), app.LogRepo(), user, date, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update log")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, service.NewLogView(*log), nil)
	}
}

func GetLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		logs, err := app.LogRepo().ListLogs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch logs")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, service.NewLogViews(logs), map[string]any{"count": len(logs)})
	}
}

func GetLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		date, err := parseDateParam(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid date")
			return
		}

		log, err := app.LogRepo().GetLog(c.Request.Context(), user.ID, date)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch log")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, service.NewLogView(*log), nil)
	}
}

func DeleteLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		date, err := parseDateParam(c)
		if err != nil {
			HandleError(c, app.Logger(), err, "Invalid date")
			return
		}

		if err := app.LogRepo().DeleteLog(c.Request.Context(), user.ID, date); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete log")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, nil, map[string]any{"message": "Log deleted"})
	}
}
