package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noticehub/notice-board-api/internal/service"
	"github.com/noticehub/notice-board-api/pkg/response"
)

// StatisticsHandler exposes the aggregate statistics snapshot.
type StatisticsHandler struct {
	notices *service.NoticeService
}

// NewStatisticsHandler creates a new handler.
func NewStatisticsHandler(notices *service.NoticeService) *StatisticsHandler {
	return &StatisticsHandler{notices: notices}
}

// Get godoc
// @Summary Notice statistics
// @Description On-demand aggregate counts; never cached
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	snapshot, err := h.notices.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}

// ExportPDF godoc
// @Summary Download the statistics snapshot as PDF
// @Tags Statistics
// @Produce application/pdf
// @Success 200 {file} file
// @Router /statistics/export [get]
func (h *StatisticsHandler) ExportPDF(c *gin.Context) {
	payload, err := h.notices.ExportStatisticsPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="statistics.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
