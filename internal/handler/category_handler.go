package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/handler/dto"
	"github.com/yourusername/trivia-bank/internal/pkg/response"
	"github.com/yourusername/trivia-bank/internal/service"
)

// CategoryHandler обрабатывает запросы, связанные с категориями
type CategoryHandler struct {
	categoryService *service.CategoryService
	questionService *service.QuestionService
	log             zerolog.Logger
}

// NewCategoryHandler создает новый обработчик категорий
func NewCategoryHandler(
	categoryService *service.CategoryService,
	questionService *service.QuestionService,
	log zerolog.Logger,
) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		questionService: questionService,
		log:             log,
	}
}

// ListCategories возвращает отображение id -> название
// GET /api/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.CategoryMap(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

// ListQuestionsByCategory возвращает все вопросы категории
// GET /api/categories/:id/questions
func (h *CategoryHandler) ListQuestionsByCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	result, err := h.questionService.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	var currentCategory *string
	if result.Category != nil {
		currentCategory = &result.Category.Type
	}

	c.JSON(http.StatusOK, dto.CategoryQuestionsResponse{
		Questions:       result.Questions,
		CurrentCategory: currentCategory,
		TotalQuestions:  result.Total,
	})
}

// CreateCategory создает категорию
// POST /api/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	req, ok := bindCategoryRequest(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req.Name())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreatedResponse{
		Success: true,
		Created: category.ID,
		Message: service.MsgCategoryCreated,
	})
}

// UpdateCategory переименовывает категорию
// PUT /api/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	req, ok := bindCategoryRequest(c)
	if !ok {
		return
	}

	if _, err := h.categoryService.Update(c.Request.Context(), categoryID, req.Name()); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: service.MsgCategoryUpdated})
}

// DeleteCategory удаляет категорию; вопросы категории остаются
// DELETE /api/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	if err := h.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeletedResponse{Success: true, Deleted: categoryID})
}

func bindCategoryRequest(c *gin.Context) (dto.CategoryRequest, bool) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "")
		return req, false
	}
	return req, true
}
