package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/yourusername/trivia-bank/internal/config"
	"github.com/yourusername/trivia-bank/internal/middleware"
	"github.com/yourusername/trivia-bank/internal/pkg/logger"
)

// Выпускает токен администратора для изменяющих маршрутов (секрет - auth.jwt_secret)
func main() {
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	subject := flag.String("sub", "admin", "subject токена")
	role := flag.String("role", middleware.RoleAdmin, "роль")
	ttl := flag.Duration("ttl", 24*time.Hour, "время жизни токена")
	flag.Parse()

	log := logger.New("trivia-token", "development", "info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("auth.jwt_secret (AUTH_JWT_SECRET) is empty")
	}

	token, err := middleware.GenerateToken(cfg.Auth.JWTSecret, *subject, *role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}
	fmt.Println(token)
}
