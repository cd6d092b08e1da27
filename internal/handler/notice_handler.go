package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noticehub/notice-board-api/internal/models"
	"github.com/noticehub/notice-board-api/internal/service"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
	"github.com/noticehub/notice-board-api/pkg/response"
)

// NoticeHandler wires HTTP endpoints to the notice service.
type NoticeHandler struct {
	notices *service.NoticeService
}

// NewNoticeHandler creates a new handler.
func NewNoticeHandler(notices *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// List godoc
// @Summary Search notices
// @Description Filtered notice search, newest first
// @Tags Notices
// @Produce json
// @Param category query string false "Category"
// @Param status query string false "Status"
// @Param date_from query string false "Created at or after (RFC3339)"
// @Param date_to query string false "Created at or before (RFC3339)"
// @Param user_id query int false "Owning user"
// @Param search query string false "Substring over title and content"
// @Param limit query int false "Max results"
// @Param offset query int false "Results to skip (requires limit)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	notices, err := h.notices.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, notices, map[string]interface{}{"count": len(notices)})
}

// Get godoc
// @Summary Get a notice
// @Tags Notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id} [get]
func (h *NoticeHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	notice, err := h.notices.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, notice)
}

// Create godoc
// @Summary Post a notice
// @Tags Notices
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	var draft models.NoticeDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}

	id, err := h.notices.Create(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": id})
}

// Update godoc
// @Summary Partially update a notice
// @Description Applies only the supplied mutable fields
// @Tags Notices
// @Accept json
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id} [patch]
func (h *NoticeHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	ok, err := h.notices.Update(c.Request.Context(), id, fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "notice not found"))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"updated": true})
}

// Delete godoc
// @Summary Delete a notice
// @Tags Notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ok, err := h.notices.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "notice not found"))
		return
	}

	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Download the filtered notice list as CSV
// @Tags Notices
// @Produce text/csv
// @Success 200 {file} file
// @Router /notices/export [get]
func (h *NoticeHandler) ExportCSV(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.notices.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "notices.csv"
	if !filter.Empty() {
		filename = "notices-filtered.csv"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid notice id")
	}
	return id, nil
}

func parseFilter(c *gin.Context) (models.NoticeFilter, error) {
	filter := models.NoticeFilter{
		Category: c.Query("category"),
		Status:   models.NoticeStatus(c.Query("status")),
		Search:   c.Query("search"),
	}

	if raw := c.Query("date_from"); raw != "" {
		ts, err := parseTime(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid date_from")
		}
		filter.DateFrom = &ts
	}
	if raw := c.Query("date_to"); raw != "" {
		ts, err := parseTime(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid date_to")
		}
		filter.DateTo = &ts
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid user_id")
		}
		filter.UserID = &userID
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid limit")
		}
		filter.Limit = &limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid offset")
		}
		filter.Offset = &offset
	}

	return filter, nil
}

func parseTime(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
