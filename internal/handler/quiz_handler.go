package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/handler/dto"
	"github.com/yourusername/trivia-bank/internal/pkg/response"
	"github.com/yourusername/trivia-bank/internal/service"
)

// QuizHandler выдает следующий вопрос викторины
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler создает новый обработчик викторины
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log,
	}
}

// NextQuestion возвращает случайный вопрос, которого нет в previous_questions
// POST /api/quizzes
func (h *QuizHandler) NextQuestion(c *gin.Context) {
	var req dto.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Valid() {
		response.Error(c, http.StatusBadRequest, "")
		return
	}

	question, err := h.quizService.NextQuestion(c.Request.Context(), req.ToCategory(), *req.PreviousQuestions)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuizQuestionResponse{Question: *question})
}
