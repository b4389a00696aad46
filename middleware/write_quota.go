package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// WriteQuota caps booking mutations per admin in a fixed window shared by
// every server instance through Redis.
type WriteQuota struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewWriteQuota(addr, password string, limit int, window time.Duration) (*WriteQuota, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("write quota requires positive limit and window")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("write quota redis addr is required")
	}
	return &WriteQuota{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		prefix: "casaligan:booking-writes",
		limit:  limit,
		window: window,
		now:    time.Now,
	}, nil
}

// Allow counts one write for key. Errors mean Redis could not be reached.
func (q *WriteQuota) Allow(ctx context.Context, key string) (bool, error) {
	windowMs := q.window.Milliseconds()
	slot := q.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", q.prefix, key, slot)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	count, err := fixedWindowScript.Run(ctx, q.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return false, err
	}
	return count <= int64(q.limit), nil
}

func (q *WriteQuota) Close() error {
	return q.client.Close()
}

// WriteQuotaMiddleware enforces q per admin. A nil quota lets every request
// through; a Redis failure rejects the write.
func WriteQuotaMiddleware(q *WriteQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		if q == nil {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if adminID := c.GetUint(ContextAdminID); adminID != 0 {
			key = "admin:" + strconv.FormatUint(uint64(adminID), 10)
		}

		allowed, err := q.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("❌ Write quota unavailable for %s: %v", key, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Write quota service unavailable"})
			c.Abort()
			return
		}
		if !allowed {
			log.Printf("🚫 Write quota exceeded for %s", key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Write quota exceeded",
				"retry_after": int(q.window.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
