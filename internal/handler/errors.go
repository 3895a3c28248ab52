package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/flow"
	"github.com/oikos/disc-backend/internal/response"
	"github.com/oikos/disc-backend/internal/service"
)

// failFlow maps flow and domain errors to API errors. Unknown errors are
// logged and reported as internal.
func failFlow(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, disc.ErrInvalidPoint):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPoint)
	case errors.Is(err, disc.ErrUnknownDimension):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"dimension": err.Error()})
	case errors.Is(err, disc.ErrQuestionOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
	case errors.Is(err, flow.ErrAnswersIncomplete):
		response.Fail(c, http.StatusBadRequest, response.ErrAnswersIncomplete)
	case errors.Is(err, flow.ErrMissingUser):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, flow.ErrTransitionNotAllowed):
		response.Fail(c, http.StatusConflict, response.ErrTransitionNotAllowed)
	case errors.Is(err, service.ErrBusy):
		response.Fail(c, http.StatusConflict, response.ErrSessionBusy)
	case errors.Is(err, service.ErrSessionExpired):
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
	case errors.Is(err, service.ErrNoResult):
		response.Fail(c, http.StatusNotFound, response.ErrNoResult)
	case errors.Is(err, service.ErrExportFailed):
		response.Fail(c, http.StatusInternalServerError, response.ErrExportFailed)
	default:
		log.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("request_id", response.RequestID(c)).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
