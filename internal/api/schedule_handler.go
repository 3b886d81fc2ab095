package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/service"
)

type ScheduleHandler struct {
	scheduleService service.ScheduleService
	feedService     service.FeedService
}

func NewScheduleHandler(scheduleService service.ScheduleService, feedService service.FeedService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		feedService:     feedService,
	}
}

// --- DTOs ---

// SessionRequest is also the template of a series, where Date is ignored.
type SessionRequest struct {
	Date                 string             `json:"date"`
	Type                 domain.SessionType `json:"type" binding:"required"`
	Slot                 string             `json:"slot"`
	StartTime            string             `json:"startTime"`
	Title                string             `json:"title" binding:"max=200"`
	Notes                string             `json:"notes" binding:"max=4000"`
	TotalMinutes         int                `json:"totalMinutes" binding:"gte=0"`
	HighIntensityMinutes int                `json:"highIntensityMinutes" binding:"gte=0"`
	Courts               int                `json:"courts" binding:"gte=0"`
	RPECourtPlanned      float64            `json:"rpeCourtPlanned" binding:"gte=0,lte=10"`
	RPEGymPlanned        float64            `json:"rpeGymPlanned" binding:"gte=0,lte=10"`
}

func (r *SessionRequest) toDomain() *domain.Session {
	return &domain.Session{
		Date:                 r.Date,
		Type:                 r.Type,
		Slot:                 domain.Slot(r.Slot),
		StartTime:            r.StartTime,
		Title:                r.Title,
		Notes:                r.Notes,
		TotalMinutes:         r.TotalMinutes,
		HighIntensityMinutes: r.HighIntensityMinutes,
		Courts:               r.Courts,
		RPECourtPlanned:      r.RPECourtPlanned,
		RPEGymPlanned:        r.RPEGymPlanned,
	}
}

type SeriesRequest struct {
	Name      string         `json:"name" binding:"required"`
	RRule     string         `json:"rrule" binding:"required"`
	StartDate string         `json:"startDate" binding:"required"`
	EndDate   string         `json:"endDate" binding:"required"`
	ExDates   []string       `json:"exDates"`
	Template  SessionRequest `json:"template"`
}

// dateRange reads the required startDate and endDate query parameters.
func dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if from, err = calendar.ParseDate(c.Query("startDate")); err != nil {
		abortWithError(c, http.StatusBadRequest, "startDate query parameter must be YYYY-MM-DD")
		return
	}
	if to, err = calendar.ParseDate(c.Query("endDate")); err != nil {
		abortWithError(c, http.StatusBadRequest, "endDate query parameter must be YYYY-MM-DD")
		return
	}
	return from, to, true
}

// --- Sessions ---

// CreateSession godoc
// @Summary Add a session to the coach's schedule
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body SessionRequest true "Session details"
// @Success 201 {object} domain.Session
// @Failure 400 {object} gin.H "Invalid input"
// @Router /schedule/sessions [post]
func (h *ScheduleHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireUserID(c)
	if !ok {
		return
	}

	session, err := h.scheduleService.CreateSession(c.Request.Context(), coachID, req.toDomain())
	if err != nil {
		abortWithServiceError(c, err, "create the session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSessions godoc
// @Summary List sessions between two days (inclusive)
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Success 200 {array} domain.Session
// @Router /schedule/sessions [get]
func (h *ScheduleHandler) GetSessions(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	sessions, err := h.scheduleService.ListSessions(c.Request.Context(), ownerID, from, to)
	if err != nil {
		abortWithServiceError(c, err, "list sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get one session
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 404 {object} gin.H "Session not found"
// @Router /schedule/sessions/{sessionId} [get]
func (h *ScheduleHandler) GetSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	session, err := h.scheduleService.GetSession(c.Request.Context(), ownerID, sessionID)
	if err != nil {
		abortWithServiceError(c, err, "load the session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateSession godoc
// @Summary Replace a session
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param session body SessionRequest true "Session details"
// @Success 200 {object} domain.Session
// @Router /schedule/sessions/{sessionId} [put]
func (h *ScheduleHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireUserID(c)
	if !ok {
		return
	}

	session := req.toDomain()
	session.ID = sessionID
	updated, err := h.scheduleService.UpdateSession(c.Request.Context(), coachID, session)
	if err != nil {
		abortWithServiceError(c, err, "update the session")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSession godoc
// @Summary Delete a session
// @Tags Schedule
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 204
// @Router /schedule/sessions/{sessionId} [delete]
func (h *ScheduleHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}
	coachID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteSession(c.Request.Context(), coachID, sessionID); err != nil {
		abortWithServiceError(c, err, "delete the session")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Series ---

// CreateSeries godoc
// @Summary Create a recurring series of sessions from an RRULE
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param series body SeriesRequest true "Series definition"
// @Success 201 {object} domain.SessionSeries
// @Router /schedule/series [post]
func (h *ScheduleHandler) CreateSeries(c *gin.Context) {
	var req SeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := requireUserID(c)
	if !ok {
		return
	}

	series, err := h.scheduleService.CreateSeries(c.Request.Context(), coachID, &domain.SessionSeries{
		Name:      req.Name,
		RRule:     req.RRule,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		ExDates:   req.ExDates,
		Template:  *req.Template.toDomain(),
	})
	if err != nil {
		abortWithServiceError(c, err, "create the series")
		return
	}
	c.JSON(http.StatusCreated, series)
}

// GetSeries godoc
// @Summary List the coach's series
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.SessionSeries
// @Router /schedule/series [get]
func (h *ScheduleHandler) GetSeries(c *gin.Context) {
	coachID, ok := requireUserID(c)
	if !ok {
		return
	}
	series, err := h.scheduleService.GetSeries(c.Request.Context(), coachID)
	if err != nil {
		abortWithServiceError(c, err, "list series")
		return
	}
	c.JSON(http.StatusOK, series)
}

// DeleteSeries godoc
// @Summary Delete a series and all of its sessions
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param seriesId path string true "Series ID"
// @Success 200 {object} gin.H "Number of deleted sessions"
// @Router /schedule/series/{seriesId} [delete]
func (h *ScheduleHandler) DeleteSeries(c *gin.Context) {
	seriesID, ok := pathObjectID(c, "seriesId")
	if !ok {
		return
	}
	coachID, ok := requireUserID(c)
	if !ok {
		return
	}

	deleted, err := h.scheduleService.DeleteSeries(c.Request.Context(), coachID, seriesID)
	if err != nil {
		abortWithServiceError(c, err, "delete the series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedSessions": deleted})
}

// --- Feed ---

// GetCalendarFeed godoc
// @Summary Schedule as an iCalendar feed
// @Tags Schedule
// @Produce text/calendar
// @Security BearerAuth
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Success 200 {string} string "VCALENDAR"
// @Router /schedule/calendar.ics [get]
func (h *ScheduleHandler) GetCalendarFeed(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	feed, err := h.feedService.Feed(c.Request.Context(), userID, from, to)
	if err != nil {
		abortWithServiceError(c, err, "build the calendar feed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="schedule-%s-to-%s.ics"`, calendar.FormatDate(from), calendar.FormatDate(to)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// owner resolves whose schedule the caller reads.
func (h *ScheduleHandler) owner(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	ownerID, err := h.scheduleService.Owner(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "resolve the schedule owner")
		return primitive.NilObjectID, false
	}
	return ownerID, true
}
