package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	"github.com/yourusername/trivia-bank/internal/service"
)

// CategoryAll - название псевдокатегории "все категории"
const CategoryAll = "ALL"

// CategoryID - id категории викторины: число или числовая строка.
// В отличие от FlexInt мусор не превращается в 0, ведь 0 здесь означает "все категории".
type CategoryID int

// UnmarshalJSON реализует json.Unmarshaler
func (id *CategoryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fmt.Errorf("quiz_category.id must be a non-negative integer, got %s", data)
	}
	*id = CategoryID(n)
	return nil
}

// QuizCategoryRequest - выбранная категория игры
type QuizCategoryRequest struct {
	ID   CategoryID `json:"id"`
	Type string     `json:"type"`
}

// QuizRequest - тело POST /api/quizzes. Оба ключа обязательны.
type QuizRequest struct {
	QuizCategory      *QuizCategoryRequest `json:"quiz_category"`
	PreviousQuestions *[]uint              `json:"previous_questions"`
}

// Valid проверяет наличие обоих ключей
func (r *QuizRequest) Valid() bool {
	return r.QuizCategory != nil && r.PreviousQuestions != nil
}

// ToCategory переводит запрос в категорию сервиса викторины.
// id == 0 означает все категории, с type "ALL" или без него.
func (r *QuizRequest) ToCategory() service.QuizCategory {
	category := service.QuizCategory{ID: int(r.QuizCategory.ID), Type: strings.TrimSpace(r.QuizCategory.Type)}
	if category.ID == 0 && category.Type == "" {
		category.Type = CategoryAll
	}
	return category
}

// QuizQuestionResponse - ответ POST /api/quizzes
type QuizQuestionResponse struct {
	Question entity.Question `json:"question"`
}
