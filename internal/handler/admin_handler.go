package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/response"
	"github.com/oikos/disc-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler handles admin result endpoints.
type AdminHandler struct {
	resultService *service.ResultService
	exportService *service.ExportService
	log           zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(resultService *service.ResultService, exportService *service.ExportService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		resultService: resultService,
		exportService: exportService,
		log:           log.With().Str("component", "admin_handler").Logger(),
	}
}

// ListResults godoc
// GET /api/v1/admin/results
// Returns every stored result, newest first, with the total count.
func (h *AdminHandler) ListResults(c *gin.Context) {
	response.Success(c, http.StatusOK, h.resultService.All(c.Request.Context()))
}

// Dashboard godoc
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	summary, err := h.resultService.Dashboard(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build dashboard")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// ExportResults godoc
// GET /api/v1/admin/results/export
// Downloads every stored result as an XLSX workbook.
func (h *AdminHandler) ExportResults(c *gin.Context) {
	rows, err := h.resultService.ExportRows(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load results for export")
		response.Fail(c, http.StatusInternalServerError, response.ErrExportFailed)
		return
	}

	doc, err := h.exportService.ResultsWorkbook(rows)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrExportFailed)
		return
	}
	response.Attachment(c, xlsxContentType, service.ResultsWorkbookFilename, doc)
}
