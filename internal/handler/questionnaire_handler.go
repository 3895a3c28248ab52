package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/response"
	"github.com/oikos/disc-backend/internal/service"
)

// QuestionnaireHandler serves the static questionnaire catalog.
type QuestionnaireHandler struct {
	presenter *service.Presenter
}

// NewQuestionnaireHandler creates a new QuestionnaireHandler.
func NewQuestionnaireHandler(presenter *service.Presenter) *QuestionnaireHandler {
	return &QuestionnaireHandler{presenter: presenter}
}

// GetQuestionnaire godoc
// GET /api/v1/public/questionnaire
func (h *QuestionnaireHandler) GetQuestionnaire(c *gin.Context) {
	catalog := h.presenter.Catalog()
	response.Success(c, http.StatusOK, gin.H{
		"title":      catalog.Title,
		"questions":  h.presenter.Questions(),
		"points":     disc.Points,
		"dimensions": catalog.Dimensions,
	})
}
