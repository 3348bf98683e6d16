package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/gin-gonic/gin"
)

type successEnvelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorEnvelope struct {
	Status  int      `json:"status"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func respond(c *gin.Context, status int, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, successEnvelope{Status: status, Success: true, Message: message, Data: data})
}

// statusFor maps an error kind onto an HTTP status code.
func statusFor(kind common.Kind) int {
	switch kind {
	case common.KindBadRequest, common.KindInvalidToken, common.KindTokenExpiredOrReused:
		return http.StatusBadRequest
	case common.KindUnauthorized:
		return http.StatusUnauthorized
	case common.KindConflict:
		return http.StatusConflict
	case common.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the failure envelope for err and stops the chain.
// Only the Message and Details of the error reach the client; the cause of
// internal errors is logged.
func abortWithError(c *gin.Context, log logging.Logger, err error) {
	var e *common.Error
	if !errors.As(err, &e) {
		e = common.Internal(err)
	}

	status := statusFor(e.Kind)
	message := e.Message
	details := e.Details

	if status >= http.StatusInternalServerError {
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
	} else {
		log.Debug(c.Request.Context(), "request rejected", "status", status, "error", err)
	}

	if details == nil {
		details = []string{}
	}

	c.AbortWithStatusJSON(status, errorEnvelope{
		Status:  status,
		Success: false,
		Message: message,
		Errors:  details,
	})
}

func abortWithStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorEnvelope{
		Status:  status,
		Success: false,
		Message: message,
		Errors:  []string{},
	})
}
