// Package ratelimiter はRedisの固定ウィンドウカウンターで試行回数を制限します。
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter は操作の頻度を制限するインターフェースです。
type Limiter interface {
	// Allow はkeyに対する今回の試行が上限内かどうかを返します。
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter はMULTI内のSET NX EXとINCRによる固定ウィンドウ方式のLimiter実装です。
type RedisLimiter struct {
	client   redis.Cmdable
	prefix   string
	limit    int64         // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter は新しいRedisLimiterを生成します。
func NewRedisLimiter(client redis.Cmdable, prefix string, limit int, interval time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		limit:    int64(limit),
		interval: interval,
	}
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("%s:%s", l.prefix, k)
}

// Allow はカウンターを1増やし、上限を超えていなければtrueを返します。
// キーが無ければTTL付きで作成してから加算するため、TTLのないカウンターは残りません。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, l.interval)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

// Middleware はクライアントIP単位で試行を制限するginミドルウェアを返します。
// limiterがnilの場合は何もしません。Redisエラー時はリクエストを通します。
func Middleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}
		if !ok {
			slog.Warn("rate limit exceeded", "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
			return
		}
		c.Next()
	}
}
