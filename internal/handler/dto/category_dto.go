package dto

import (
	"strings"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
)

// CategoryRequest - тело создания/переименования категории.
// Старый клиент присылает название в поле category, новый - в type.
type CategoryRequest struct {
	Category string `json:"category"`
	Type     string `json:"type"`
}

// Name возвращает название категории из любого из полей
func (r *CategoryRequest) Name() string {
	if name := strings.TrimSpace(r.Type); name != "" {
		return name
	}
	return strings.TrimSpace(r.Category)
}

// CategoriesResponse - ответ GET /api/categories
type CategoriesResponse struct {
	Categories entity.CategoryMap `json:"categories"`
}
