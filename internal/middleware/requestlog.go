package middleware

import (
  "time"

  "github.com/gin-gonic/gin"

  "github.com/chatloop-org/chatloop-backend/internal/logger"
)

type RequestLogMiddleware struct {
  log *logger.Logger
}

func NewRequestLogMiddleware(log *logger.Logger) *RequestLogMiddleware {
  middlewareLogger := log.With("Middleware", "RequestLogMiddleware")
  return &RequestLogMiddleware{log: middlewareLogger}
}

// LogRequests logs one line per request with method, path, status and
// duration.
func (rl *RequestLogMiddleware) LogRequests() gin.HandlerFunc {
  return func(c *gin.Context) {
    start := time.Now()
    c.Next()
    rl.log.Info("request handled",
      "method", c.Request.Method,
      "path", c.Request.URL.Path,
      "status", c.Writer.Status(),
      "duration", time.Since(start).String(),
    )
  }
}
