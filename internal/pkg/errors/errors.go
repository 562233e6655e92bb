package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных (400).
	ErrValidation = errors.New("validation failed")

	// ErrUnprocessable зарезервирована для ответов 422.
	ErrUnprocessable = errors.New("unprocessable")

	// ErrConflict используется для конфликтов состояния (например, категория с таким именем уже есть).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnauthorized используется для ошибок авторизации (нет или неверный токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")
)

// Error - ошибка с сообщением, которое отдается клиенту как есть.
// Kind определяет HTTP-статус (одна из ошибок выше).
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New создает ошибку заданного вида с клиентским сообщением
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// PublicMessage возвращает клиентское сообщение, если err (или одна из обернутых) - *Error
func PublicMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
