package handler

import (
	"context"
	"net/http"

	"knowyourplate/internal/auth"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/middleware"
	"knowyourplate/internal/models"
	"knowyourplate/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionLister interface {
	ListActiveQuestions(ctx context.Context) ([]models.Question, error)
}

type SurveyService interface {
	SubmitSurvey(ctx context.Context, id *auth.Identity, answers []service.AnswerInput, actor service.Actor) (*service.SubmitResult, error)
	GetSubmissionStatus(ctx context.Context, userID uint) (*service.SubmissionStatus, error)
}

type SurveyHandler struct {
	questions QuestionLister
	survey    SurveyService
	log       *logger.Logger
}

func NewSurveyHandler(questions QuestionLister, survey SurveyService, log *logger.Logger) *SurveyHandler {
	return &SurveyHandler{questions: questions, survey: survey, log: log}
}

type SubmitRequest struct {
	Responses []service.AnswerInput `json:"responses" binding:"required"`
}

// Questions GET /survey/questions
func (h *SurveyHandler) Questions(c *gin.Context) {
	list, err := h.questions.ListActiveQuestions(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.Question{}
	}
	c.JSON(http.StatusOK, gin.H{"questions": list})
}

// Status GET /survey/status
func (h *SurveyHandler) Status(c *gin.Context) {
	status, err := h.survey.GetSubmissionStatus(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Submit POST /survey/submit
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.survey.SubmitSurvey(c.Request.Context(), middleware.GetIdentity(c), req.Responses, actorFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Survey submitted successfully",
		"submissionId":    res.SubmissionID,
		"eligibleForDraw": res.EligibleForDraw,
	})
}
