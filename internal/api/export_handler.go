package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/service"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// CreateExportRequest selects the days to print. WeeksPerPage falls back to
// the server default when omitted.
type CreateExportRequest struct {
	StartDate    string `json:"startDate" binding:"required"`
	EndDate      string `json:"endDate" binding:"required"`
	WeeksPerPage int    `json:"weeksPerPage" binding:"omitempty,gte=1,lte=6"`
}

type ExportResponse struct {
	ID          string    `json:"id"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Pages       int       `json:"pages"`
	Sessions    int       `json:"sessions"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
}

func mapExportToResponse(e *domain.Export, url string) ExportResponse {
	return ExportResponse{
		ID:          e.ID.Hex(),
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		FileName:    e.FileName,
		ContentType: e.ContentType,
		Size:        e.Size,
		Pages:       e.Pages,
		Sessions:    e.Sessions,
		CreatedAt:   e.CreatedAt,
		DownloadURL: url,
	}
}

// CreateExport godoc
// @Summary Render the schedule to a printable document
// @Description Paginates the requested days into week rows, renders a PDF, stores it and returns a short-lived download URL.
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param export body CreateExportRequest true "Export range"
// @Success 201 {object} ExportResponse
// @Failure 400 {object} gin.H "Invalid range"
// @Failure 502 {object} gin.H "Storage failure"
// @Router /schedule/exports [post]
func (h *ExportHandler) CreateExport(c *gin.Context) {
	var req CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	record, url, err := h.exportService.CreateExport(c.Request.Context(), userID, service.ExportRequest{
		StartDate:    start,
		EndDate:      end,
		WeeksPerPage: req.WeeksPerPage,
	})
	if err != nil {
		abortWithServiceError(c, err, "export the schedule")
		return
	}
	c.JSON(http.StatusCreated, mapExportToResponse(record, url))
}

// GetExports godoc
// @Summary List previous exports of the caller's schedule
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExportResponse
// @Router /schedule/exports [get]
func (h *ExportHandler) GetExports(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exports, err := h.exportService.ListExports(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "list exports")
		return
	}
	resp := make([]ExportResponse, len(exports))
	for i := range exports {
		resp[i] = mapExportToResponse(&exports[i], "")
	}
	c.JSON(http.StatusOK, resp)
}

// GetExport godoc
// @Summary Get an export with a fresh download URL
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param exportId path string true "Export ID"
// @Success 200 {object} ExportResponse
// @Failure 404 {object} gin.H "Export not found"
// @Router /schedule/exports/{exportId} [get]
func (h *ExportHandler) GetExport(c *gin.Context) {
	exportID, ok := pathObjectID(c, "exportId")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	record, url, err := h.exportService.GetDownloadURL(c.Request.Context(), userID, exportID)
	if err != nil {
		abortWithServiceError(c, err, "load the export")
		return
	}
	c.JSON(http.StatusOK, mapExportToResponse(record, url))
}

// DeleteExport godoc
// @Summary Delete an export and its stored document
// @Tags Exports
// @Security BearerAuth
// @Param exportId path string true "Export ID"
// @Success 204
// @Router /schedule/exports/{exportId} [delete]
func (h *ExportHandler) DeleteExport(c *gin.Context) {
	exportID, ok := pathObjectID(c, "exportId")
	if !ok {
		return
	}
	coachID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.exportService.DeleteExport(c.Request.Context(), coachID, exportID); err != nil {
		abortWithServiceError(c, err, "delete the export")
		return
	}
	c.Status(http.StatusNoContent)
}
