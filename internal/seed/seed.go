// Package seed загружает стартовый банк вопросов из YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/trivia-bank/internal/domain/entity"
	"github.com/yourusername/trivia-bank/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-bank/internal/pkg/errors"
)

// File - корень YAML-файла
type File struct {
	Categories []Category `yaml:"categories"`
}

// Category - категория с вложенными вопросами
type Category struct {
	Type      string     `yaml:"type"`
	Questions []Question `yaml:"questions"`
}

// Question - вопрос без категории (она задается родителем)
type Question struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	Difficulty int    `yaml:"difficulty"`
}

// Result - сколько записей создано и пропущено
type Result struct {
	CategoriesCreated int
	CategoriesSkipped int
	QuestionsCreated  int
}

// Load читает и проверяет YAML
func Load(r io.Reader) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	for i, c := range f.Categories {
		if strings.TrimSpace(c.Type) == "" {
			return nil, fmt.Errorf("categories[%d]: type is required", i)
		}
		for j, q := range c.Questions {
			probe := entity.Question{Question: q.Question, Answer: q.Answer, Category: 1, Difficulty: q.Difficulty}
			if !probe.IsComplete() {
				return nil, fmt.Errorf("categories[%d] %q questions[%d]: question, answer and difficulty are required", i, c.Type, j)
			}
		}
	}
	return &f, nil
}

// Apply создает категории и их вопросы. Категория, уже существующая по названию,
// пропускается вместе с вопросами, поэтому повторный запуск ничего не дублирует.
func Apply(
	ctx context.Context,
	categories repository.CategoryRepository,
	questions repository.QuestionRepository,
	f *File,
	log zerolog.Logger,
) (Result, error) {
	var res Result
	for _, c := range f.Categories {
		name := strings.TrimSpace(c.Type)

		_, err := categories.GetByType(ctx, name)
		switch {
		case err == nil:
			log.Info().Str("category", name).Msg("Категория уже существует, пропускаем")
			res.CategoriesSkipped++
			continue
		case !errors.Is(err, apperrors.ErrNotFound):
			return res, fmt.Errorf("failed to look up category %q: %w", name, err)
		}

		category := &entity.Category{Type: name}
		if err := categories.Create(ctx, category); err != nil {
			return res, fmt.Errorf("failed to create category %q: %w", name, err)
		}
		res.CategoriesCreated++

		for _, q := range c.Questions {
			question := &entity.Question{
				Question:   q.Question,
				Answer:     q.Answer,
				Category:   int(category.ID),
				Difficulty: q.Difficulty,
			}
			if err := questions.Create(ctx, question); err != nil {
				return res, fmt.Errorf("failed to create question in %q: %w", name, err)
			}
			res.QuestionsCreated++
		}
		log.Info().Str("category", name).Int("questions", len(c.Questions)).Msg("Категория загружена")
	}
	return res, nil
}
