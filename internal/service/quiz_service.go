package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	"github.com/yourusername/trivia-bank/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-bank/internal/pkg/errors"
)

// MsgNoQuestionAvailable - ответ, когда в категории не осталось непоказанных вопросов
const MsgNoQuestionAvailable = "no question available"

// RandomSource - источник равномерно распределенных индексов.
// *rand.Rand подходит для тестов с фиксированным seed.
type RandomSource interface {
	// Intn возвращает число из [0, n)
	Intn(n int) int
}

// globalRandom использует глобальный генератор math/rand, безопасный для конкурентного доступа
type globalRandom struct{}

func (globalRandom) Intn(n int) int { return rand.Intn(n) }

// QuizCategory - категория, выбранная для игры. ID == 0 означает "все категории".
type QuizCategory struct {
	ID   int
	Type string
}

// IsAll сообщает, выбраны ли все категории
func (c QuizCategory) IsAll() bool {
	return c.ID == 0
}

// QuizService выдает случайный непоказанный вопрос.
// Состояние между вызовами не хранится: список показанных вопросов присылает клиент.
type QuizService struct {
	questionRepo repository.QuestionRepository
	random       RandomSource
	log          zerolog.Logger
}

// NewQuizService создает новый сервис викторины. random == nil - глобальный генератор.
func NewQuizService(questionRepo repository.QuestionRepository, random RandomSource, log zerolog.Logger) *QuizService {
	if random == nil {
		random = globalRandom{}
	}
	return &QuizService{
		questionRepo: questionRepo,
		random:       random,
		log:          log,
	}
}

// NextQuestion выбирает случайный вопрос категории, которого нет среди previousQuestions
func (s *QuizService) NextQuestion(ctx context.Context, category QuizCategory, previousQuestions []uint) (*entity.Question, error) {
	var (
		pool []entity.Question
		err  error
	)
	if category.IsAll() {
		pool, err = s.questionRepo.ListAll(ctx)
	} else {
		pool, err = s.questionRepo.ListByCategory(ctx, category.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz candidates: %w", err)
	}

	candidates := entity.ExcludeIDs(pool, previousQuestions)
	question, ok := PickRandom(candidates, s.random)
	if !ok {
		s.log.Debug().
			Int("category", category.ID).
			Int("previous", len(previousQuestions)).
			Msg("Непоказанных вопросов не осталось")
		return nil, apperrors.New(apperrors.ErrNotFound, MsgNoQuestionAvailable)
	}
	return &question, nil
}

// PickRandom выбирает один элемент равновероятно. Результат зависит только от
// candidates и значения, полученного из random. false - если выбирать не из чего.
func PickRandom(candidates []entity.Question, random RandomSource) (entity.Question, bool) {
	if len(candidates) == 0 {
		return entity.Question{}, false
	}
	return candidates[random.Intn(len(candidates))], true
}
