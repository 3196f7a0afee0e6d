package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TokenSaver interface {
	SaveToken(ctx context.Context, token string) error
}

// TokenCapture persists a bearer token presented by the UI so the backend
// notifier can use it later. Requests without one pass through.
func TokenCapture(saver TokenSaver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && strings.TrimSpace(parts[1]) != "" {
			if err := saver.SaveToken(c.Request.Context(), strings.TrimSpace(parts[1])); err != nil {
				logrus.WithError(err).Warn("TokenCapture: failed to save token")
			}
		}
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
