package repository

import (
	"context"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами.
// Порядок выдачи во всех списках - по возрастанию id.
type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	Delete(ctx context.Context, id uint) error

	CountAll(ctx context.Context) (int64, error)
	Paginate(ctx context.Context, offset, limit int) ([]entity.Question, error)
	ListAll(ctx context.Context) ([]entity.Question, error)

	ListByCategory(ctx context.Context, categoryID int) ([]entity.Question, error)

	// SearchByText ищет вопросы, текст которых содержит term (без учета регистра).
	// categoryID == nil - поиск по всем категориям.
	SearchByText(ctx context.Context, term string, categoryID *int) ([]entity.Question, error)
}
