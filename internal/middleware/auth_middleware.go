package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/trivia-bank/internal/pkg/response"
)

// RoleAdmin - роль, которой разрешено изменять банк вопросов
const RoleAdmin = "admin"

// AdminClaims - claims токена администратора
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminGuard защищает изменяющие маршруты токеном HS256.
// С пустым секретом защита выключена.
type AdminGuard struct {
	secret []byte
}

// NewAdminGuard создает guard с секретом подписи
func NewAdminGuard(secret string) *AdminGuard {
	return &AdminGuard{secret: []byte(secret)}
}

// Enabled сообщает, включена ли проверка токена
func (g *AdminGuard) Enabled() bool {
	return g != nil && len(g.secret) > 0
}

// RequireAdmin проверяет заголовок Authorization: Bearer {token} и роль admin
func (g *AdminGuard) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Authorize(c) {
			return
		}
		c.Next()
	}
}

// Authorize выполняет ту же проверку внутри обработчика.
// При отказе ответ уже отправлен и запрос прерван.
func (g *AdminGuard) Authorize(c *gin.Context) bool {
	if !g.Enabled() {
		return true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Error(c, http.StatusUnauthorized, "Authorization header is required")
		return false
	}

	// Проверяем формат заголовка Bearer {token}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Error(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
		return false
	}

	claims, err := g.parse(parts[1])
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
		return false
	}
	if claims.Role != RoleAdmin {
		response.Error(c, http.StatusForbidden, "Admin rights required")
		return false
	}

	c.Set("subject", claims.Subject)
	return true
}

func (g *AdminGuard) parse(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GenerateToken подписывает токен с заданной ролью и временем жизни
func GenerateToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
