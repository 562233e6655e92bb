package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-bank/internal/pkg/errors"
	redisRepo "github.com/yourusername/trivia-bank/internal/repository/redis"
)

func newTestCategoryService(repo *MockCategoryRepository) *CategoryService {
	return NewCategoryService(repo, redisRepo.NoopCache{}, time.Minute, zerolog.Nop())
}

func TestCategoryService_CategoryMap_CacheHit(t *testing.T) {
	// Arrange
	mockRepo := new(MockCategoryRepository)
	mockCache := new(MockCacheRepository)
	mockCache.On("GetJSON", mock.Anything, categoryMapCacheKey, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*entity.CategoryMap)
			*dest = entity.CategoryMap{1: "Science"}
		}).
		Return(nil)

	svc := NewCategoryService(mockRepo, mockCache, time.Minute, zerolog.Nop())

	// Act
	m, err := svc.CategoryMap(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryMap{1: "Science"}, m)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestCategoryService_CategoryMap_CacheMissFillsCache(t *testing.T) {
	// Arrange
	mockRepo := new(MockCategoryRepository)
	mockCache := new(MockCacheRepository)
	mockCache.On("GetJSON", mock.Anything, categoryMapCacheKey, mock.Anything).Return(apperrors.ErrNotFound)
	mockRepo.On("List", mock.Anything).Return([]entity.Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}, nil)
	mockCache.On("SetJSON", mock.Anything, categoryMapCacheKey, entity.CategoryMap{1: "Science", 2: "Art"}, time.Minute).Return(nil)

	svc := NewCategoryService(mockRepo, mockCache, time.Minute, zerolog.Nop())

	// Act
	m, err := svc.CategoryMap(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Len(t, m, 2)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestCategoryService_CategoryMap_CacheErrorFailsOpen(t *testing.T) {
	// Arrange: Redis недоступен, ответ все равно строится из БД
	mockRepo := new(MockCategoryRepository)
	mockCache := new(MockCacheRepository)
	mockCache.On("GetJSON", mock.Anything, categoryMapCacheKey, mock.Anything).Return(errors.New("connection refused"))
	mockCache.On("SetJSON", mock.Anything, categoryMapCacheKey, mock.Anything, time.Minute).Return(errors.New("connection refused"))
	mockRepo.On("List", mock.Anything).Return([]entity.Category{{ID: 1, Type: "Science"}}, nil)

	svc := NewCategoryService(mockRepo, mockCache, time.Minute, zerolog.Nop())

	// Act
	m, err := svc.CategoryMap(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Science", m[1])
}

func TestCategoryService_Resolve(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(&entity.Category{ID: 2, Type: "Art"}, nil)
	mockRepo.On("GetByType", mock.Anything, "Science").Return(&entity.Category{ID: 1, Type: "Science"}, nil)

	svc := newTestCategoryService(mockRepo)

	byID, err := svc.Resolve(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Art", byID.Type)

	byName, err := svc.Resolve(context.Background(), "Science")
	require.NoError(t, err)
	assert.Equal(t, uint(1), byName.ID)
}

func TestCategoryService_Create_Validation(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestCategoryService(mockRepo)

	_, err := svc.Create(context.Background(), "   ")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, MsgCategoryTypeRequired, err.Error())
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryService_Create_Duplicate(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).
		Return(apperrors.ErrConflict)

	svc := newTestCategoryService(mockRepo)

	_, err := svc.Create(context.Background(), "Marketing")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, MsgCategoryExists, err.Error())
}

func TestCategoryService_Create_InvalidatesCache(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	mockCache := new(MockCacheRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Category).ID = 7 }).
		Return(nil)
	mockCache.On("Delete", mock.Anything, categoryMapCacheKey).Return(nil)

	svc := NewCategoryService(mockRepo, mockCache, time.Minute, zerolog.Nop())

	category, err := svc.Create(context.Background(), " Marketing ")

	require.NoError(t, err)
	assert.Equal(t, uint(7), category.ID)
	assert.Equal(t, "Marketing", category.Type)
	mockCache.AssertExpectations(t)
}

func TestCategoryService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	mockRepo.On("Update", mock.Anything, &entity.Category{ID: 9, Type: "Arts"}).Return(apperrors.ErrNotFound)

	svc := newTestCategoryService(mockRepo)

	_, err := svc.Update(context.Background(), 9, "Arts")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, MsgCategoryNotFound, err.Error())
}

func TestCategoryService_Delete(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	mockRepo.On("Delete", mock.Anything, uint(3)).Return(nil).Once()
	mockRepo.On("Delete", mock.Anything, uint(3)).Return(apperrors.ErrNotFound).Once()

	svc := newTestCategoryService(mockRepo)

	require.NoError(t, svc.Delete(context.Background(), 3))
	err := svc.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
