package api

import (
	"net/http"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/auth"
	"github.com/NaveedSindha/health-wellness-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

func PostGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var req service.GoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.ErrBadRequest.WithError(err), "Invalid request: type, target_value and period required")
			return
		}

		if err := service.ValidateGoalRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, "Goal validation failed")
			return
		}

		goal, err := service.CreateGoal(c.Request.Context(), app.GoalRepo(), user, &req, app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save goal")
			return
		}

		// A new goal starts with an empty window.
		HandleSuccess(c, app.Logger(), http.StatusCreated, service.NewGoalView(*goal, service.GoalEvaluation{}), nil)
	}
}

// GetGoals evaluates the user's active goals and records any completions.
func GetGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		goals, err := service.ListActiveGoals(c.Request.Context(), app.LogRepo(), app.GoalRepo(), user, app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to evaluate goals")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, goals, nil)
	}
}

func DeleteGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		if err := app.GoalRepo().DeleteGoal(c.Request.Context(), user.ID, c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete goal")
			return
		}

		HandleSuccess(c, app.Logger(), http.StatusOK, nil, map[string]any{"message": "Goal removed"})
	}
}
