package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-bank/internal/pkg/response"
)

// ExtractUintParam создает middleware для извлечения и валидации числового параметра URL.
// Нечисловой параметр означает, что маршрут не найден (404), как и для целочисленного
// сегмента пути в прежней версии API.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
		if err != nil {
			response.Error(c, http.StatusNotFound, "")
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
