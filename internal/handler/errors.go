package handler

import (
	"net/http"
	"time"

	"garage/pkg/apperror"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError answers with the status that matches the error kind. Internal
// errors are attached to the context for the request logger and not echoed.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, response.Error(status, "internal server error"))
		return
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, msg))
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

// uuidParam parses a path parameter, answering 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// dateRange reads start_date/end_date (RFC3339), defaulting to the current
// month so far.
func dateRange(c *gin.Context, now time.Time) (time.Time, time.Time, bool) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := now
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "invalid start_date format, expected RFC3339")
			return time.Time{}, time.Time{}, false
		}
		start = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "invalid end_date format, expected RFC3339")
			return time.Time{}, time.Time{}, false
		}
		end = t
	}
	return start, end, true
}
