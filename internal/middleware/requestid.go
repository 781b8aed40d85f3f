package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the id assigned to each request
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the context key holding the request id
const RequestIDKey = "requestID"

// RequestLogger assigns a request id (keeping a valid incoming one) and logs
// each request with it once the handler returns
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		}
		if userID, ok := CurrentUserID(c); ok {
			fields["user_id"] = userID
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logrus.WithFields(fields).Error("Request failed")
			return
		}
		logrus.WithFields(fields).Info("Request served")
	}
}

// Logger returns a log entry tagged with the request id
func Logger(c *gin.Context) *logrus.Entry {
	return logrus.WithField("request_id", c.GetString(RequestIDKey))
}
