package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"knowyourplate/internal/logger"
	"knowyourplate/internal/models"
	"knowyourplate/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionAdmin interface {
	ListAllQuestions(ctx context.Context) ([]models.Question, error)
	CreateQuestion(ctx context.Context, actor service.Actor, in service.QuestionInput) (*models.Question, error)
	UpdateQuestion(ctx context.Context, actor service.Actor, id uint, in service.QuestionInput) (*models.Question, error)
	DeleteQuestion(ctx context.Context, actor service.Actor, id uint) error
}

type ReportService interface {
	ListResponses(ctx context.Context) ([]service.UserResponse, error)
	ListReferralStats(ctx context.Context) (*service.ReferralReport, error)
}

type DrawService interface {
	ConductDraw(ctx context.Context, actor service.Actor) (*service.DrawResult, error)
	ListDraws(ctx context.Context, limit, offset int) ([]models.Draw, error)
}

type AdminHandler struct {
	questions QuestionAdmin
	reports   ReportService
	draws     DrawService
	log       *logger.Logger
}

func NewAdminHandler(questions QuestionAdmin, reports ReportService, draws DrawService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{questions: questions, reports: reports, draws: draws, log: log}
}

// UpdateQuestionRequest carries the id in the body next to the new values.
type UpdateQuestionRequest struct {
	ID uint `json:"id" binding:"required"`
	service.QuestionInput
}

// ListQuestions GET /admin/questions
func (h *AdminHandler) ListQuestions(c *gin.Context) {
	list, err := h.questions.ListAllQuestions(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.Question{}
	}
	c.JSON(http.StatusOK, gin.H{"questions": list})
}

// CreateQuestion POST /admin/questions
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var in service.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	q, err := h.questions.CreateQuestion(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Question added successfully",
		"questionId": q.ID,
		"question":   q,
	})
}

// UpdateQuestion PUT /admin/questions
func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	q, err := h.questions.UpdateQuestion(c.Request.Context(), actorFrom(c), req.ID, req.QuestionInput)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully", "question": q})
}

// DeleteQuestion DELETE /admin/questions?id=
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question id required"})
		return
	}
	if err := h.questions.DeleteQuestion(c.Request.Context(), actorFrom(c), uint(id)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// Responses GET /admin/responses, or a CSV download with ?format=csv.
func (h *AdminHandler) Responses(c *gin.Context) {
	responses, err := h.reports.ListResponses(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if c.Query("format") != "csv" {
		c.JSON(http.StatusOK, gin.H{"responses": responses})
		return
	}
	var buf bytes.Buffer
	if err := service.ExportCSV(&buf, responses); err != nil {
		respondError(c, h.log, err)
		return
	}
	filename := fmt.Sprintf("survey-responses-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Referrals GET /admin/referrals
func (h *AdminHandler) Referrals(c *gin.Context) {
	report, err := h.reports.ListReferralStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// LuckyDraw POST /admin/lucky-draw
func (h *AdminHandler) LuckyDraw(c *gin.Context) {
	res, err := h.draws.ConductDraw(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListDraws GET /admin/draws
func (h *AdminHandler) ListDraws(c *gin.Context) {
	page, limit := parsePagination(c)
	list, err := h.draws.ListDraws(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.Draw{}
	}
	c.JSON(http.StatusOK, gin.H{"draws": list, "page": page, "limit": limit})
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
