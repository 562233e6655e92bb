package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
)

// FlexInt принимает в JSON как число, так и числовую строку ("4").
// Все остальное (null, пустая строка, мусор) превращается в 0, то есть "значение не задано".
type FlexInt int

// UnmarshalJSON реализует json.Unmarshaler и никогда не возвращает ошибку
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*f = FlexInt(n)
		return nil
	}
	// 4.0 тоже считается целым
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v == float64(int(v)) {
		*f = FlexInt(int(v))
	}
	return nil
}

// QuestionRequest - тело POST /api/questions.
// Непустой searchTerm означает поиск, иначе - создание вопроса.
type QuestionRequest struct {
	SearchTerm *string `json:"searchTerm"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   FlexInt `json:"category"`
	Difficulty FlexInt `json:"difficulty"`
}

// IsSearch сообщает, является ли запрос поиском
func (r *QuestionRequest) IsSearch() bool {
	return r.SearchTerm != nil && strings.TrimSpace(*r.SearchTerm) != ""
}

// ToEntity собирает вопрос из полей запроса
func (r *QuestionRequest) ToEntity() entity.Question {
	return entity.Question{
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   int(r.Category),
		Difficulty: int(r.Difficulty),
	}
}

// QuestionPageResponse - ответ GET /api/questions
type QuestionPageResponse struct {
	Questions       []entity.Question  `json:"questions"`
	CurrentCategory int                `json:"current_category"`
	Categories      entity.CategoryMap `json:"categories"`
	TotalQuestions  int64              `json:"total_questions"`
}

// SearchResponse - ответ на поиск. CurrentCategory - переданный параметр
// (число, если он числовой, иначе строка) или null.
type SearchResponse struct {
	Questions       []entity.Question `json:"questions"`
	CurrentCategory interface{}       `json:"current_category"`
	TotalQuestions  int64             `json:"total_questions"`
}

// CategoryQuestionsResponse - ответ GET /api/categories/:id/questions
type CategoryQuestionsResponse struct {
	Questions       []entity.Question `json:"questions"`
	CurrentCategory *string           `json:"current_category"`
	TotalQuestions  int64             `json:"total_questions"`
}

// DeletedResponse - ответ на удаление
type DeletedResponse struct {
	Success bool `json:"success"`
	Deleted uint `json:"deleted"`
}

// CreatedResponse - ответ на создание
type CreatedResponse struct {
	Success bool   `json:"success"`
	Created uint   `json:"created"`
	Message string `json:"message"`
}

// MessageResponse - успешный ответ с сообщением
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EchoCategory приводит параметр current_category к виду для ответа
func EchoCategory(ref *string) interface{} {
	if ref == nil {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(*ref)); err == nil {
		return n
	}
	return *ref
}
