package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrUnknownQuickEdit),
		errors.Is(err, entity.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrBusy),
		errors.Is(err, entity.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, entity.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, entity.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, entity.ErrAuth),
		errors.Is(err, entity.ErrEmptyResponse),
		errors.Is(err, entity.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. snap, when given, lets the
// page redraw without a second request.
func respondError(c *gin.Context, err error, snap *entity.Snapshot) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("Unhandled error")
	}

	body := gin.H{"error": entity.UserMessage(err)}
	if snap != nil {
		body["snapshot"] = snap
	}
	c.AbortWithStatusJSON(status, body)
}
