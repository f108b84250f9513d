// internal/interfaces/http/middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
)

// Logger emits one structured logrus line per request. Severity tracks
// the response class so 5xx responses stand out in aggregated logs.
func Logger(cfg *config.Config) gin.HandlerFunc {
	log := newRequestLogger(cfg)

	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		fields := logrus.Fields{
			"request_id": p.Keys["request_id"],
			"method":     p.Method,
			"path":       p.Path,
			"status":     p.StatusCode,
			"latency_ms": p.Latency.Milliseconds(),
			"client_ip":  p.ClientIP,
			"bytes":      p.BodySize,
		}
		if p.ErrorMessage != "" {
			fields["error"] = p.ErrorMessage
		}

		entry := log.WithFields(fields)
		switch {
		case p.StatusCode >= 500:
			entry.Error("request failed")
		case p.StatusCode >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
		return ""
	})
}

func newRequestLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}
	return log
}
