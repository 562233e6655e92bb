package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Сообщения по умолчанию для конверта ошибки
var defaultMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusInternalServerError: "Server Error",
}

// ErrorBody - конверт ошибки: {"success": false, "error": <code>, "message": <text>}
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// DefaultMessage возвращает стандартный текст для статуса
func DefaultMessage(status int) string {
	if msg, ok := defaultMessages[status]; ok {
		return msg
	}
	return http.StatusText(status)
}

// Error прерывает обработку запроса и отдает конверт ошибки.
// Пустой message заменяется стандартным текстом статуса.
func Error(c *gin.Context, status int, message string) {
	if message == "" {
		message = DefaultMessage(status)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Success: false, Error: status, Message: message})
}
