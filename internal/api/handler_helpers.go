package api

import (
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/response"
	"github.com/gin-gonic/gin"
)

// HandleError logs err with the request id and writes it as an API error.
// Server-side failures hide their cause from the client.
func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	appErr := internal.FromError(err)
	if appErr.Status >= 500 {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
		c.JSON(appErr.Status, response.InternalError(msg))
		return
	}
	logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	c.JSON(appErr.Status, response.Failure(appErr))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(status, response.Success(data, meta))
}

func parseDateParam(c *gin.Context) (time.Time, error) {
	date, err := internal.ParseDate(c.Param("date"))
	if err != nil {
		return time.Time{}, internal.ErrBadRequest.WithMessage("date must be formatted YYYY-MM-DD").WithError(err)
	}
	return date, nil
}
