package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "idempotency:"
)

// storedReply is the replayable response for an idempotency key.
type storedReply struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// replyRecorder captures the response body while it is written.
type replyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *replyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating requests. A retried charge with the same key therefore returns
// the first attempt's result instead of charging twice. Redis being down
// disables the guarantee rather than the endpoint.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyPrefix + key

		if reply, ok := loadReply(ctx, client, cacheKey); ok {
			c.Data(reply.StatusCode, reply.ContentType, reply.Body)
			c.Abort()
			return
		}

		recorder := &replyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		// Server errors are not replayed; the client may retry them.
		if status := c.Writer.Status(); status >= 200 && status < 500 {
			saveReply(ctx, client, cacheKey, storedReply{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			})
		}
	}
}

func loadReply(ctx context.Context, client *redis.Client, key string) (*storedReply, bool) {
	// A miss and an unavailable Redis look the same to the caller: the
	// request proceeds without the replay guarantee.
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var reply storedReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, false
	}
	return &reply, true
}

func saveReply(ctx context.Context, client *redis.Client, key string, reply storedReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	_ = client.Set(ctx, key, data, idempotencyTTL).Err()
}
