package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/trivia-bank/internal/config"
	"github.com/yourusername/trivia-bank/internal/domain/entity"
	"github.com/yourusername/trivia-bank/internal/middleware"
	pgRepo "github.com/yourusername/trivia-bank/internal/repository/postgres"
	redisRepo "github.com/yourusername/trivia-bank/internal/repository/redis"
	"github.com/yourusername/trivia-bank/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// firstRandom всегда выбирает первый кандидат
type firstRandom struct{}

func (firstRandom) Intn(int) int { return 0 }

type testAPIOptions struct {
	errorOut  bool
	jwtSecret string
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
}

// newTestAPI собирает весь стек поверх in-memory SQLite с тестовыми данными
func newTestAPI(t *testing.T, opts testAPIOptions) *testAPI {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Category{}, &entity.Question{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Create(&[]entity.Category{
		{ID: 1, Type: "Science"},
		{ID: 2, Type: "Art"},
		{ID: 3, Type: "Geography"},
	}).Error)
	require.NoError(t, db.Create(&[]entity.Question{
		{ID: 20, Question: "What is the heaviest organ in the human body?", Answer: "The Liver", Category: 1, Difficulty: 4},
		{ID: 21, Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3},
		{ID: 22, Question: "Hematology is a branch of medicine involving the study of what?", Answer: "Blood", Category: 1, Difficulty: 4},
		{ID: 16, Question: "Which Dutch graphic artist was a creator of optical illusions?", Answer: "=Escher", Category: 2, Difficulty: 1},
		{ID: 13, Question: "What is the largest lake in Africa?", Answer: "Lake Victoria", Category: 3, Difficulty: 2},
	}).Error)

	log := zerolog.Nop()
	pagination := config.PaginationConfig{QuestionsPerPage: 10, MaxQuestionsPerPage: 10, ErrorOut: opts.errorOut}

	questionRepo := pgRepo.NewQuestionRepo(db)
	categoryService := service.NewCategoryService(pgRepo.NewCategoryRepo(db), redisRepo.NoopCache{}, time.Minute, log)
	questionService := service.NewQuestionService(questionRepo, categoryService, pagination, log)
	quizService := service.NewQuizService(questionRepo, firstRandom{}, log)
	guard := middleware.NewAdminGuard(opts.jwtSecret)

	router := NewRouter(RouterDeps{
		Questions:  NewQuestionHandler(questionService, guard, log),
		Categories: NewCategoryHandler(categoryService, questionService, log),
		Quiz:       NewQuizHandler(quizService, log),
		Health: NewHealthHandler(map[string]CheckFunc{
			"postgres": sqlDB.PingContext,
		}, log),
		AdminGuard:     guard,
		AllowedOrigins: []string{"http://localhost:3000"},
		Log:            log,
	})
	return &testAPI{router: router, db: db}
}

// do выполняет запрос; body - строка с сырым JSON или значение для json.Marshal
func (a *testAPI) do(method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// questionIDs достает id вопросов из ответа
func questionIDs(t *testing.T, resp map[string]interface{}) []int {
	t.Helper()
	raw, ok := resp["questions"].([]interface{})
	require.True(t, ok, "questions should be an array: %v", resp["questions"])
	ids := make([]int, 0, len(raw))
	for _, item := range raw {
		ids = append(ids, int(item.(map[string]interface{})["id"].(float64)))
	}
	return ids
}

func assertEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	resp := parseJSONResponse(t, w)
	require.Equal(t, false, resp["success"])
	require.Equal(t, float64(status), resp["error"])
	require.Equal(t, message, resp["message"])
}
