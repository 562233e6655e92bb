package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/yourusername/trivia-bank/internal/pkg/response"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests - максимальное количество запросов за Window; 0 отключает лимит
	MaxRequests int
	// Window - временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix - префикс для ключей в Redis
	KeyPrefix string
}

// WindowCounter считает запросы в фиксированном окне
type WindowCounter interface {
	// Hit увеличивает счетчик key и возвращает новое значение и оставшееся время окна
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// noExpiry - ответ TTL для ключа без срока жизни
const noExpiry = time.Duration(-1)

// RedisCounter реализует WindowCounter через INCR + EXPIRE
type RedisCounter struct {
	client redis.UniversalClient
}

// NewRedisCounter создает счетчик поверх клиента Redis
func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

// Hit реализует WindowCounter
func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// Первый запрос в окне - устанавливаем TTL
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return count, window, nil
	}
	// -1: ключ без TTL (например, прошлый Expire не удался) - иначе счетчик не сбросится никогда
	if ttl == noExpiry {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
		return count, window, nil
	}
	if ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimiter создаёт middleware для rate limiting
type RateLimiter struct {
	counter WindowCounter
	log     zerolog.Logger
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(counter WindowCounter, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{counter: counter, log: log}
}

// Limit возвращает Gin middleware с заданной конфигурацией.
// Ключ формируется из IP + шаблона маршрута; при ошибке счетчика запрос пропускается.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.counter == nil || cfg.MaxRequests <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:%s:%s:%s", cfg.KeyPrefix, clientIP, c.Request.Method, path)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, ttl, err := rl.counter.Hit(ctx, key, cfg.Window)
		if err != nil {
			rl.log.Warn().Err(err).Str("key", key).Msg("Rate limiter недоступен, запрос пропущен (fail-open)")
			c.Next()
			return
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		retryAfter := int(ttl.Seconds())

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))

		if int(count) > cfg.MaxRequests {
			rl.log.Info().
				Str("ip", clientIP).
				Str("path", path).
				Int64("count", count).
				Int("limit", cfg.MaxRequests).
				Msg("Rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, "")
			return
		}

		c.Next()
	}
}
