package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/flow"
	"github.com/oikos/disc-backend/internal/middleware"
	"github.com/oikos/disc-backend/internal/model"
	"github.com/oikos/disc-backend/internal/response"
	"github.com/oikos/disc-backend/internal/service"
	"github.com/oikos/disc-backend/internal/validator"
)

// FlowHandler exposes the questionnaire screens of a session.
type FlowHandler struct {
	flowService   *service.FlowService
	exportService *service.ExportService
	log           zerolog.Logger
}

// NewFlowHandler creates a new FlowHandler.
func NewFlowHandler(flowService *service.FlowService, exportService *service.ExportService, log zerolog.Logger) *FlowHandler {
	return &FlowHandler{
		flowService:   flowService,
		exportService: exportService,
		log:           log.With().Str("component", "flow_handler").Logger(),
	}
}

// GetView godoc
// GET /api/v1/flow
// Returns the current screen.
func (h *FlowHandler) GetView(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.flowService.View(c.Request.Context(), claims.SessionID())
	if err != nil {
		failFlow(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Start godoc
// POST /api/v1/flow/start
func (h *FlowHandler) Start(c *gin.Context) {
	h.dispatch(c, flow.Start{})
}

// Submit godoc
// POST /api/v1/flow/submit
// Finalizes the questionnaire once every question holds a full 4-3-2-1 assignment.
func (h *FlowHandler) Submit(c *gin.Context) {
	h.dispatch(c, flow.Submit{})
}

// Reset godoc
// POST /api/v1/flow/reset
func (h *FlowHandler) Reset(c *gin.Context) {
	h.dispatch(c, flow.Reset{})
}

// MyResults godoc
// POST /api/v1/flow/my-results
func (h *FlowHandler) MyResults(c *gin.Context) {
	h.dispatch(c, flow.ShowMyResults{})
}

// SetAnswer godoc
// PUT /api/v1/flow/answers/:index
// Assigns a point value to one dimension of a question. Value 0 clears it.
func (h *FlowHandler) SetAnswer(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
		return
	}

	var req model.SetAnswerRequest
	if errs := validator.Bind(c, &req); errs != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, errs)
		return
	}

	action, err := service.ParseSetAnswer(index, req)
	if err != nil {
		failFlow(c, h.log, err)
		return
	}
	h.dispatch(c, action)
}

// ResultPDF godoc
// GET /api/v1/flow/results/pdf
// Downloads the current result as a one-page PDF.
func (h *FlowHandler) ResultPDF(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, result, err := h.flowService.CurrentResult(c.Request.Context(), claims.SessionID())
	if err != nil {
		failFlow(c, h.log, err)
		return
	}

	doc, err := h.exportService.ResultPDF(*user, result)
	if err != nil {
		failFlow(c, h.log, err)
		return
	}
	response.Attachment(c, "application/pdf", service.ResultPDFFilename, doc)
}

func (h *FlowHandler) dispatch(c *gin.Context, action flow.Action) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.flowService.Dispatch(c.Request.Context(), claims.SessionID(), action)
	if err != nil {
		failFlow(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}
