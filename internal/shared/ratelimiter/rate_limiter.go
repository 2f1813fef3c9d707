package ratelimiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter は、固定ウィンドウ方式でキーごとの操作回数を制限します。
type Limiter struct {
	limit    int           // 1ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	count int
	start time.Time
}

// NewLimiterは新しいLimiterのインスタンスを生成します。
func NewLimiter(limit int, interval time.Duration) *Limiter {
	return &Limiter{
		limit:     limit,
		interval:  interval,
		windows:   make(map[string]*window),
		lastSweep: time.Now(),
	}
}

// Allowはkeyに対する操作が上限内かを確認し、1回分を消費します。
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// 期限切れウィンドウの遅延掃除。溜め込むとキー数だけメモリを食う
	if now.Sub(l.lastSweep) >= l.interval {
		for k, w := range l.windows {
			if now.Sub(w.start) >= l.interval {
				delete(l.windows, k)
			}
		}
		l.lastSweep = now
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.interval {
		// interval を過ぎたらカウントリセット
		l.windows[key] = &window{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= l.limit
}

// MiddlewareはクライアントIPごとにリクエスト数を制限するGinミドルウェアを返します。
// 上限超過時は429を返します。
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
