package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-bank/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос, ID назначается базой
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// Delete удаляет вопрос. Если строки не было - возвращает ErrNotFound,
// поэтому повторное удаление того же ID никогда не считается успехом.
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountAll возвращает общее количество вопросов
func (r *QuestionRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).Count(&count).Error
	return count, err
}

// Paginate возвращает страницу вопросов в порядке id
func (r *QuestionRepo) Paginate(ctx context.Context, offset, limit int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&questions).Error
	return questions, err
}

// ListAll возвращает все вопросы
func (r *QuestionRepo) ListAll(ctx context.Context) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).Order("id").Find(&questions).Error
	return questions, err
}

// ListByCategory возвращает все вопросы категории
func (r *QuestionRepo) ListByCategory(ctx context.Context, categoryID int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).Where("category = ?", categoryID).Order("id").Find(&questions).Error
	return questions, err
}

// SearchByText ищет вопросы по подстроке без учета регистра.
// LOWER + LIKE вместо ILIKE, чтобы запрос работал и на SQLite в тестах.
func (r *QuestionRepo) SearchByText(ctx context.Context, term string, categoryID *int) ([]entity.Question, error) {
	var questions []entity.Question
	query := r.db.WithContext(ctx).
		Where(`LOWER(question) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
	if categoryID != nil {
		query = query.Where("category = ?", *categoryID)
	}
	err := query.Order("id").Find(&questions).Error
	return questions, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE, чтобы term искался буквально
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
