package handlers

import (
	"net/http"
	"strconv"

	"item-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoggerKey is the gin context key holding the request-scoped logrus entry.
const LoggerKey = "logger"

// RequestLogger returns the entry stored by the logging middleware, or the
// standard logger when the middleware is not installed (tests).
func RequestLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(LoggerKey); ok {
		if entry, ok := v.(logrus.FieldLogger); ok {
			return entry
		}
	}
	return logrus.StandardLogger()
}

// parseItemID reads the :id path parameter. Anything other than a positive
// integer is answered with 400.
func parseItemID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return 0, false
	}
	return id, true
}

// respondInternalError logs the cause and answers 500 with a generic message.
func respondInternalError(c *gin.Context, err error, msg string) {
	RequestLogger(c).WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}
