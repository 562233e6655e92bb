package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-bank/internal/pkg/errors"
)

// fixedRandom всегда возвращает заданный индекс (обрезанный до n-1)
type fixedRandom struct{ index int }

func (f fixedRandom) Intn(n int) int {
	if f.index >= n {
		return n - 1
	}
	return f.index
}

func scienceQuestions() []entity.Question {
	return []entity.Question{
		{ID: 20, Question: "What is the heaviest organ in the human body?", Answer: "The Liver", Category: 1, Difficulty: 4},
		{ID: 21, Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3},
		{ID: 22, Question: "Hematology is a branch of medicine involving the study of what?", Answer: "Blood", Category: 1, Difficulty: 4},
	}
}

func TestQuizService_NextQuestion_SingleCandidate(t *testing.T) {
	// Arrange: 3 вопроса в категории, 2 уже показаны -> остается только 22
	mockQuestions := new(MockQuestionRepository)
	mockQuestions.On("ListByCategory", mock.Anything, 1).Return(scienceQuestions(), nil)

	svc := NewQuizService(mockQuestions, rand.New(rand.NewSource(1)), zerolog.Nop())

	// Act
	for i := 0; i < 10; i++ {
		question, err := svc.NextQuestion(context.Background(), QuizCategory{ID: 1, Type: "Science"}, []uint{20, 21})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, uint(22), question.ID)
	}
}

func TestQuizService_NextQuestion_Exhausted(t *testing.T) {
	mockQuestions := new(MockQuestionRepository)
	mockQuestions.On("ListByCategory", mock.Anything, 1).Return(scienceQuestions(), nil)

	svc := NewQuizService(mockQuestions, nil, zerolog.Nop())

	question, err := svc.NextQuestion(context.Background(), QuizCategory{ID: 1, Type: "Science"}, []uint{20, 21, 22})

	assert.Nil(t, question)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, MsgNoQuestionAvailable, err.Error())
}

func TestQuizService_NextQuestion_AllCategories(t *testing.T) {
	mockQuestions := new(MockQuestionRepository)
	all := append(scienceQuestions(), entity.Question{ID: 13, Category: 3})
	mockQuestions.On("ListAll", mock.Anything).Return(all, nil)

	svc := NewQuizService(mockQuestions, fixedRandom{index: 3}, zerolog.Nop())

	question, err := svc.NextQuestion(context.Background(), QuizCategory{ID: 0, Type: "ALL"}, []uint{})

	require.NoError(t, err)
	assert.Equal(t, uint(13), question.ID, "Последний кандидат достижим")
	mockQuestions.AssertNotCalled(t, "ListByCategory", mock.Anything, mock.Anything)
}

func TestQuizService_NextQuestion_NeverReturnsExcluded(t *testing.T) {
	mockQuestions := new(MockQuestionRepository)
	mockQuestions.On("ListByCategory", mock.Anything, 1).Return(scienceQuestions(), nil)

	svc := NewQuizService(mockQuestions, rand.New(rand.NewSource(7)), zerolog.Nop())

	for i := 0; i < 200; i++ {
		question, err := svc.NextQuestion(context.Background(), QuizCategory{ID: 1}, []uint{21})
		require.NoError(t, err)
		assert.NotEqual(t, uint(21), question.ID)
	}
}

func TestQuizService_NextQuestion_EveryCandidateReachable(t *testing.T) {
	// Arrange: M = 4 вопроса, пустой список исключений
	mockQuestions := new(MockQuestionRepository)
	all := append(scienceQuestions(), entity.Question{ID: 13, Category: 3})
	mockQuestions.On("ListAll", mock.Anything).Return(all, nil)

	svc := NewQuizService(mockQuestions, rand.New(rand.NewSource(42)), zerolog.Nop())

	// Act
	seen := make(map[uint]int)
	for i := 0; i < 400; i++ {
		question, err := svc.NextQuestion(context.Background(), QuizCategory{ID: 0, Type: "ALL"}, nil)
		require.NoError(t, err)
		seen[question.ID]++
	}

	// Assert: каждый вопрос выпал, и ни один не доминирует
	require.Len(t, seen, 4)
	for id, count := range seen {
		assert.Greater(t, count, 50, "Вопрос %d выпал подозрительно редко", id)
	}
}

func TestQuizService_NextQuestion_StoreFailure(t *testing.T) {
	mockQuestions := new(MockQuestionRepository)
	mockQuestions.On("ListAll", mock.Anything).Return(nil, errors.New("connection reset"))

	svc := NewQuizService(mockQuestions, nil, zerolog.Nop())

	_, err := svc.NextQuestion(context.Background(), QuizCategory{}, nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPickRandom(t *testing.T) {
	candidates := scienceQuestions()

	first, ok := PickRandom(candidates, fixedRandom{index: 0})
	require.True(t, ok)
	assert.Equal(t, uint(20), first.ID)

	last, ok := PickRandom(candidates, fixedRandom{index: 2})
	require.True(t, ok)
	assert.Equal(t, uint(22), last.ID)

	_, ok = PickRandom(nil, fixedRandom{})
	assert.False(t, ok)
}

func TestQuizCategory_IsAll(t *testing.T) {
	assert.True(t, QuizCategory{ID: 0, Type: "ALL"}.IsAll())
	assert.True(t, QuizCategory{ID: 0, Type: "click"}.IsAll())
	assert.False(t, QuizCategory{ID: 1, Type: "Science"}.IsAll())
}
