package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/middleware"
	"github.com/yourusername/trivia-bank/internal/pkg/response"
)

// RouterDeps - все, что нужно для сборки маршрутов
type RouterDeps struct {
	Questions  *QuestionHandler
	Categories *CategoryHandler
	Quiz       *QuizHandler
	Health     *HealthHandler

	AdminGuard  *middleware.AdminGuard
	RateLimiter *middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig
	Metrics     *middleware.Metrics

	AllowedOrigins []string
	TrustedProxies []string
	Log            zerolog.Logger
}

// NewRouter собирает gin.Engine со всеми маршрутами API
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Доверяем только явно заданным прокси; nil - не доверять заголовкам прокси
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Log.Warn().Err(err).Msg("Не удалось установить доверенные прокси")
	}

	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(deps.Log))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Handler())
	}
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "")
	})
	router.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "")
	})

	if deps.Health != nil {
		router.GET("/healthz", deps.Health.Live)
		router.GET("/readyz", deps.Health.Ready)
	}

	// Изменяющие маршруты: проверка администратора и ограничение частоты
	write := []gin.HandlerFunc{deps.AdminGuard.RequireAdmin(), deps.RateLimiter.Limit(deps.RateLimit)}
	writeWith := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(write)+len(handlers))
		chain = append(chain, write...)
		return append(chain, handlers...)
	}

	api := router.Group("/api")
	{
		// Категории
		categories := api.Group("/categories")
		{
			categories.GET("", deps.Categories.ListCategories)
			categories.POST("", writeWith(deps.Categories.CreateCategory)...)

			categoryWithID := categories.Group("/:id")
			categoryWithID.Use(middleware.ExtractUintParam("id", "categoryID"))
			{
				categoryWithID.GET("/questions", deps.Categories.ListQuestionsByCategory)
				categoryWithID.PUT("", writeWith(deps.Categories.UpdateCategory)...)
				categoryWithID.DELETE("", writeWith(deps.Categories.DeleteCategory)...)
			}
		}

		// Вопросы
		questions := api.Group("/questions")
		{
			questions.GET("", deps.Questions.ListQuestions)
			questions.GET("/export", deps.Questions.ExportQuestions)
			// POST - и создание, и поиск: права на создание проверяет сам обработчик
			questions.POST("", deps.RateLimiter.Limit(deps.RateLimit), deps.Questions.CreateOrSearch)

			// Нечисловой id - 404 маршрутизации еще до проверки прав
			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.DELETE("", writeWith(deps.Questions.DeleteQuestion)...)
			}
		}

		// Викторина
		api.POST("/quizzes", deps.Quiz.NextQuestion)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS", "PUT", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Cache-Control", "X-Requested-With", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	for _, origin := range origins {
		if origin == "*" {
			// Любой источник несовместим с credentials
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
