package main

import (
	"database/sql"
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/config"
	"github.com/yourusername/trivia-bank/internal/pkg/logger"
)

// Утилита ручного управления миграциями: up, down, force (очистка dirty-состояния), version
func main() {
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	command := flag.String("cmd", "up", "up | down | force | version")
	steps := flag.Int("steps", 0, "количество шагов для up/down (0 - все)")
	version := flag.Int("version", -1, "версия для force")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New("trivia-migrate", "development", "info")
		bootLog.Fatal().Err(err).Msg("Failed to load config")
	}
	log := logger.New("trivia-migrate", cfg.App.Env, cfg.App.LogLevel)

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+cfg.Database.MigrationsDir, "postgres", driver)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate instance")
	}

	if err := run(m, *command, *steps, *version, log); err != nil {
		log.Error().Err(err).Str("cmd", *command).Msg("Migration command failed")
		os.Exit(1)
	}
}

func run(m *migrate.Migrate, command string, steps, version int, log zerolog.Logger) error {
	var err error
	switch command {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "force":
		if version < 0 {
			return errors.New("-version is required for force")
		}
		log.Info().Int("version", version).Msg("Forcing migration version to clean dirty state")
		err = m.Force(version)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			return verr
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("Current migration version")
		return nil
	default:
		return errors.New("unknown command " + command)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("No change")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("cmd", command).Msg("Success")
	return nil
}
