package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	"github.com/yourusername/trivia-bank/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-bank/internal/pkg/errors"
)

// categoryMapCacheKey - ключ Redis для закешированного отображения id -> название
const categoryMapCacheKey = "categories:map"

// Сообщения, которые отдаются клиенту как есть
const (
	MsgCategoryCreated      = "Category Created Successfully"
	MsgCategoryUpdated      = "Category Updated Successfully"
	MsgCategoryTypeRequired = "Category type is required"
	MsgCategoryExists       = "Category already exists!"
	MsgCategoryNotFound     = "Category does not exist"
)

// CategoryService предоставляет методы для работы с категориями
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cacheRepo    repository.CacheRepository
	cacheTTL     time.Duration
	log          zerolog.Logger
}

// NewCategoryService создает новый сервис категорий
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

// CategoryMap возвращает отображение id -> название всех категорий.
// Сначала читает кеш; ошибки кеша не мешают ответу (fail-open).
func (s *CategoryService) CategoryMap(ctx context.Context) (entity.CategoryMap, error) {
	var cached entity.CategoryMap
	err := s.cacheRepo.GetJSON(ctx, categoryMapCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.log.Warn().Err(err).Msg("Ошибка чтения кеша категорий, читаем из БД")
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	m := entity.NewCategoryMap(categories)

	if err := s.cacheRepo.SetJSON(ctx, categoryMapCacheKey, m, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("Не удалось сохранить категории в кеш")
	}
	return m, nil
}

// GetByID возвращает категорию по ID
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// Resolve находит категорию по ссылке: число - это id, иначе название
func (s *CategoryService) Resolve(ctx context.Context, ref string) (*entity.Category, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		return s.categoryRepo.GetByID(ctx, uint(id))
	}
	return s.categoryRepo.GetByType(ctx, ref)
}

// Create создает категорию с заданным названием
func (s *CategoryService) Create(ctx context.Context, categoryType string) (*entity.Category, error) {
	categoryType = strings.TrimSpace(categoryType)
	if categoryType == "" {
		return nil, apperrors.New(apperrors.ErrValidation, MsgCategoryTypeRequired)
	}

	category := &entity.Category{Type: categoryType}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.New(apperrors.ErrConflict, MsgCategoryExists)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info().Uint("category_id", category.ID).Str("type", category.Type).Msg("Категория создана")
	return category, nil
}

// Update переименовывает категорию
func (s *CategoryService) Update(ctx context.Context, id uint, categoryType string) (*entity.Category, error) {
	categoryType = strings.TrimSpace(categoryType)
	if categoryType == "" {
		return nil, apperrors.New(apperrors.ErrValidation, MsgCategoryTypeRequired)
	}

	category := &entity.Category{ID: id, Type: categoryType}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.New(apperrors.ErrNotFound, MsgCategoryNotFound)
		case errors.Is(err, apperrors.ErrConflict):
			return nil, apperrors.New(apperrors.ErrConflict, MsgCategoryExists)
		}
		return nil, fmt.Errorf("failed to update category #%d: %w", id, err)
	}

	s.invalidate(ctx)
	return category, nil
}

// Delete удаляет категорию. Вопросы категории остаются в банке.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.New(apperrors.ErrNotFound, MsgCategoryNotFound)
		}
		return fmt.Errorf("failed to delete category #%d: %w", id, err)
	}

	s.invalidate(ctx)
	s.log.Info().Uint("category_id", id).Msg("Категория удалена")
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cacheRepo.Delete(ctx, categoryMapCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("Не удалось сбросить кеш категорий")
	}
}
