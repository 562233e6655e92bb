package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/config"
	"github.com/yourusername/trivia-bank/internal/domain/entity"
	"github.com/yourusername/trivia-bank/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-bank/internal/pkg/errors"
)

// Сообщения, которые отдаются клиенту как есть
const (
	MsgQuestionFieldsRequired = "request object must have the following fields: question, answer, category, difficulty"
	MsgQuestionCreated        = "Question created successfully!"
)

// QuestionPage - страница вопросов вместе с общим количеством и категориями
type QuestionPage struct {
	Questions  []entity.Question
	Total      int64
	Categories entity.CategoryMap
}

// QuestionList - результат поиска или выборки по категории
type QuestionList struct {
	Questions []entity.Question
	Total     int64
	// Category - найденная категория; nil, если категория не задана или не существует
	Category *entity.Category
}

// QuestionService реализует выдачу, поиск, создание и удаление вопросов
type QuestionService struct {
	questionRepo repository.QuestionRepository
	categories   *CategoryService
	pagination   config.PaginationConfig
	log          zerolog.Logger
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	categories *CategoryService,
	pagination config.PaginationConfig,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		categories:   categories,
		pagination:   pagination,
		log:          log,
	}
}

// PageSize возвращает действующий размер страницы
func (s *QuestionService) PageSize() int {
	return s.pagination.PageSize()
}

// ListQuestions возвращает страницу вопросов (page >= 1; меньшие значения приводятся к 1).
// Страница за пределами диапазона - пустой список, либо ErrNotFound при ErrorOut.
func (s *QuestionService) ListQuestions(ctx context.Context, page int) (*QuestionPage, error) {
	if page < 1 {
		page = 1
	}
	pageSize := s.PageSize()

	total, err := s.questionRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	// Сравниваем номер страницы с числом страниц, а не смещение: (page-1)*pageSize может переполнить int.
	// Первая страница пустой таблицы - не выход за диапазон.
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	if page > 1 && int64(page-1) >= pages {
		if s.pagination.ErrorOut {
			return nil, fmt.Errorf("%w: page %d is out of range", apperrors.ErrNotFound, page)
		}
		categories, err := s.categories.CategoryMap(ctx)
		if err != nil {
			return nil, err
		}
		return &QuestionPage{Questions: []entity.Question{}, Total: total, Categories: categories}, nil
	}

	offset := (page - 1) * pageSize
	questions, err := s.questionRepo.Paginate(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to paginate questions: %w", err)
	}

	categories, err := s.categories.CategoryMap(ctx)
	if err != nil {
		return nil, err
	}

	return &QuestionPage{
		Questions:  nonNil(questions),
		Total:      total,
		Categories: categories,
	}, nil
}

// DeleteQuestion удаляет вопрос. Отсутствующий ID - ErrNotFound, в том числе при повторном удалении.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("question #%d: %w", id, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to delete question #%d: %w", id, err)
	}
	s.log.Info().Uint("question_id", id).Msg("Вопрос удален")
	return nil
}

// CreateQuestion сохраняет новый вопрос. Все четыре поля обязательны.
func (s *QuestionService) CreateQuestion(ctx context.Context, question entity.Question) (*entity.Question, error) {
	question.ID = 0
	if !question.IsComplete() {
		return nil, apperrors.New(apperrors.ErrValidation, MsgQuestionFieldsRequired)
	}

	if err := s.questionRepo.Create(ctx, &question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	s.log.Info().Uint("question_id", question.ID).Int("category", question.Category).Msg("Вопрос создан")
	return &question, nil
}

// SearchQuestions ищет вопросы по подстроке. categoryRef - необязательный id или название категории;
// если категория задана, но не найдена, результат пустой (это не ошибка).
func (s *QuestionService) SearchQuestions(ctx context.Context, term string, categoryRef *string) (*QuestionList, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "searchTerm must not be empty")
	}

	var category *entity.Category
	var categoryID *int
	if categoryRef != nil {
		found, err := s.categories.Resolve(ctx, *categoryRef)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return &QuestionList{Questions: []entity.Question{}, Total: 0}, nil
			}
			return nil, fmt.Errorf("failed to resolve category %q: %w", *categoryRef, err)
		}
		category = found
		id := int(found.ID)
		categoryID = &id
	}

	questions, err := s.questionRepo.SearchByText(ctx, term, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}

	return &QuestionList{
		Questions: nonNil(questions),
		Total:     int64(len(questions)),
		Category:  category,
	}, nil
}

// ListByCategory возвращает все вопросы категории. Для неизвестной категории
// Category == nil, а список вопросов (обычно пустой) все равно возвращается.
func (s *QuestionService) ListByCategory(ctx context.Context, categoryID uint) (*QuestionList, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get category #%d: %w", categoryID, err)
	}

	questions, err := s.questionRepo.ListByCategory(ctx, int(categoryID))
	if err != nil {
		return nil, fmt.Errorf("failed to list questions of category #%d: %w", categoryID, err)
	}

	return &QuestionList{
		Questions: nonNil(questions),
		Total:     int64(len(questions)),
		Category:  category,
	}, nil
}

// ExportQuestions возвращает все вопросы для выгрузки; categoryID ограничивает выборку одной категорией
func (s *QuestionService) ExportQuestions(ctx context.Context, categoryID *int) ([]entity.Question, error) {
	if categoryID != nil {
		return s.questionRepo.ListByCategory(ctx, *categoryID)
	}
	return s.questionRepo.ListAll(ctx)
}

func nonNil(questions []entity.Question) []entity.Question {
	if questions == nil {
		return []entity.Question{}
	}
	return questions
}
