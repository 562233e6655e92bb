package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	"github.com/yourusername/trivia-bank/internal/handler/dto"
	"github.com/yourusername/trivia-bank/internal/middleware"
	"github.com/yourusername/trivia-bank/internal/pkg/response"
	"github.com/yourusername/trivia-bank/internal/service"
)

// QuestionHandler обрабатывает запросы к банку вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
	adminGuard      *middleware.AdminGuard
	log             zerolog.Logger
}

// NewQuestionHandler создает новый обработчик вопросов.
// adminGuard проверяет права на создание вопроса (поиск открыт всем).
func NewQuestionHandler(questionService *service.QuestionService, adminGuard *middleware.AdminGuard, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		adminGuard:      adminGuard,
		log:             log,
	}
}

// ListQuestions возвращает страницу вопросов
// GET /api/questions?page=&current_category=
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	currentCategory := queryInt(c, "current_category", 1)

	result, err := h.questionService.ListQuestions(c.Request.Context(), page)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuestionPageResponse{
		Questions:       result.Questions,
		CurrentCategory: currentCategory,
		Categories:      result.Categories,
		TotalQuestions:  result.Total,
	})
}

// DeleteQuestion удаляет вопрос
// DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.questionService.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeletedResponse{Success: true, Deleted: questionID})
}

// CreateOrSearch создает вопрос, а при непустом searchTerm выполняет поиск
// POST /api/questions[?current_category=]
func (h *QuestionHandler) CreateOrSearch(c *gin.Context) {
	var req dto.QuestionRequest
	// Пустое тело равносильно запросу без полей
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "")
		return
	}

	if req.IsSearch() {
		h.search(c, *req.SearchTerm)
		return
	}

	if !h.adminGuard.Authorize(c) {
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), req.ToEntity())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreatedResponse{
		Success: true,
		Created: question.ID,
		Message: service.MsgQuestionCreated,
	})
}

func (h *QuestionHandler) search(c *gin.Context, term string) {
	var categoryRef *string
	if ref, ok := c.GetQuery("current_category"); ok {
		categoryRef = &ref
	}

	result, err := h.questionService.SearchQuestions(c.Request.Context(), term, categoryRef)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		Questions:       result.Questions,
		CurrentCategory: dto.EchoCategory(categoryRef),
		TotalQuestions:  result.Total,
	})
}

// ExportQuestions выгружает вопросы в CSV или Excel
// GET /api/questions/export?format=csv|xlsx[&current_category=]
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		response.Error(c, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	var categoryID *int
	if raw, ok := c.GetQuery("current_category"); ok {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			response.Error(c, http.StatusBadRequest, "")
			return
		}
		categoryID = &id
	}

	questions, err := h.questionService.ExportQuestions(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("questions_%s", time.Now().Format("2006-01-02"))
	if categoryID != nil {
		filename = fmt.Sprintf("questions_category_%d_%s", *categoryID, time.Now().Format("2006-01-02"))
	}

	switch format {
	case "xlsx":
		h.exportXLSX(c, questions, filename)
	default:
		h.exportCSV(c, questions, filename)
	}
}

var exportHeaders = []string{"ID", "Question", "Answer", "Category", "Difficulty"}

// exportCSV экспортирует вопросы в CSV с правильным экранированием спецсимволов
func (h *QuestionHandler) exportCSV(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
	c.Status(http.StatusOK)

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, q := range questions {
		writer.Write([]string{
			strconv.FormatUint(uint64(q.ID), 10),
			sanitizeForExcel(q.Question),
			sanitizeForExcel(q.Answer),
			strconv.Itoa(q.Category),
			strconv.Itoa(q.Difficulty),
		})
	}
}

// exportXLSX экспортирует вопросы в Excel с использованием StreamWriter
func (h *QuestionHandler) exportXLSX(c *gin.Context, questions []entity.Question, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Questions"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		handleError(c, h.log, fmt.Errorf("failed to create stream writer: %w", err))
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, title := range exportHeaders {
		headers[i] = title
	}
	if err := sw.SetRow("A1", headers); err != nil {
		h.log.Warn().Err(err).Msg("Ошибка записи заголовков")
	}

	for i, q := range questions {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{q.ID, sanitizeForExcel(q.Question), sanitizeForExcel(q.Answer), q.Category, q.Difficulty}
		if err := sw.SetRow(cell, row); err != nil {
			h.log.Warn().Err(err).Int("row", i+2).Msg("Ошибка записи строки")
		}
	}

	if err := sw.Flush(); err != nil {
		handleError(c, h.log, fmt.Errorf("failed to flush xlsx: %w", err))
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("Ошибка записи Excel в response")
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// queryInt читает целый query-параметр; отсутствующий или нечисловой - def
func queryInt(c *gin.Context, key string, def int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
