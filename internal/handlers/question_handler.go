package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harentsoaR/carelink/internal/middleware"
	"github.com/harentsoaR/carelink/internal/models"
)

var errAlreadyAnswered = errors.New("question already answered")

type AskQuestionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

func (h *Handler) AskQuestion(c *gin.Context) {
	var req AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and description are required"})
		return
	}

	ctx := c.Request.Context()
	patient, err := h.Store.FindUserByID(ctx, middleware.CurrentUserID(c))
	if err != nil {
		storeError(c, err, "User not found")
		return
	}

	q := &models.MedicalQuestion{
		ID:          "q_" + uuid.NewString(),
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.QuestionOpen,
		CreatedAt:   h.Now(),
	}
	if err := h.Store.CreateQuestion(ctx, q); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}
	c.JSON(http.StatusCreated, q)
}

// MyQuestions lists the questions the calling patient asked.
func (h *Handler) MyQuestions(c *gin.Context) {
	h.listQuestions(c, func(q *models.MedicalQuestion) bool {
		return q.PatientID == middleware.CurrentUserID(c)
	})
}

// OpenQuestions lists the questions still waiting for an answer.
func (h *Handler) OpenQuestions(c *gin.Context) {
	h.listQuestions(c, func(q *models.MedicalQuestion) bool {
		return q.Status != models.QuestionAnswered
	})
}

func (h *Handler) listQuestions(c *gin.Context, keep func(*models.MedicalQuestion) bool) {
	all, err := h.Store.ListQuestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve questions"})
		return
	}
	out := make([]*models.MedicalQuestion, 0, len(all))
	for _, q := range all {
		if keep(q) {
			out = append(out, q)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AnswerQuestion(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answer is required"})
		return
	}

	ctx := c.Request.Context()
	nurse, err := h.Store.FindUserByID(ctx, middleware.CurrentUserID(c))
	if err != nil {
		storeError(c, err, "Nurse not found")
		return
	}

	q, err := h.Store.UpdateQuestion(ctx, c.Param("id"), func(q *models.MedicalQuestion) error {
		if q.Status == models.QuestionAnswered {
			return errAlreadyAnswered
		}
		now := h.Now()
		q.Status = models.QuestionAnswered
		q.AssignedTo = nurse.ID
		q.AssignedToName = nurse.Name
		q.Answer = req.Answer
		q.AnsweredAt = &now
		return nil
	})
	if errors.Is(err, errAlreadyAnswered) {
		c.JSON(http.StatusConflict, gin.H{"error": "Question has already been answered"})
		return
	}
	if err != nil {
		storeError(c, err, "Question not found")
		return
	}
	c.JSON(http.StatusOK, q)
}
