package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/yourusername/trivia-bank/internal/config"
	"github.com/yourusername/trivia-bank/internal/pkg/logger"
	pgRepo "github.com/yourusername/trivia-bank/internal/repository/postgres"
	"github.com/yourusername/trivia-bank/internal/seed"
	"github.com/yourusername/trivia-bank/pkg/database"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	seedPath := flag.String("file", "seed/trivia.yaml", "YAML с категориями и вопросами")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New("trivia-seed", "development", "info")
		bootLog.Fatal().Err(err).Msg("Failed to load config")
	}
	log := logger.New("trivia-seed", cfg.App.Env, cfg.App.LogLevel)

	file, err := os.Open(*seedPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *seedPath).Msg("Failed to open seed file")
	}
	defer file.Close()

	data, err := seed.Load(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *seedPath).Msg("Invalid seed file")
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), false)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.MigrateDB(db, cfg.Database.MigrationsDir, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := seed.Apply(ctx, pgRepo.NewCategoryRepo(db), pgRepo.NewQuestionRepo(db), data, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().
		Int("categories_created", res.CategoriesCreated).
		Int("categories_skipped", res.CategoriesSkipped).
		Int("questions_created", res.QuestionsCreated).
		Msg("Seeding finished")
}
