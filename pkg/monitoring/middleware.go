package monitoring

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger is the logging surface the HTTP middleware needs
type RequestLogger interface {
	HTTPRequest(ctx context.Context, method, path, userAgent, clientIP string, statusCode int, duration int64, details map[string]interface{})
}

// HTTPMiddleware returns gin middleware recording request metrics and
// emitting one structured log line per request.
func HTTPMiddleware(metrics *MetricsCollector, log RequestLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		// Use the route template so metric cardinality stays bounded
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.RecordHTTPRequest(c.Request.Method, endpoint, strconv.Itoa(status), duration)

		log.HTTPRequest(
			c.Request.Context(),
			c.Request.Method,
			c.Request.URL.Path,
			c.Request.UserAgent(),
			c.ClientIP(),
			status,
			duration.Milliseconds(),
			map[string]interface{}{
				"bytes_written": c.Writer.Size(),
			},
		)
	}
}

// ObserveMongoOperation wraps a repository call with timing and outcome
// metrics for one database operation.
func ObserveMongoOperation(metrics *MetricsCollector, operation, collection string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "failed"
		metrics.RecordSystemError("database_error", "database")
	}
	metrics.RecordMongoOperation(operation, collection, status, duration)

	return err
}
