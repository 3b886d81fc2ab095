package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/export"
	"alcyxob/team-schedule/internal/service"
)

// abortWithServiceError maps service sentinel errors to HTTP status codes.
// Anything unrecognized is logged and reported as a 500.
func abortWithServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSeriesNotFound),
		errors.Is(err, service.ErrExportNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCoachNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, service.ErrInvalidSeries),
		errors.Is(err, service.ErrRangeTooLarge),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, calendar.ErrInvalidRange),
		errors.Is(err, calendar.ErrInvalidWeeksPerPage):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoSchedule):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, export.ErrEmission):
		log.Printf("ERROR: %s: %v", action, err)
		abortWithError(c, http.StatusBadGateway, "Could not store the exported document")
	default:
		log.Printf("ERROR: %s: %v", action, err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred while trying to "+action)
	}
}
