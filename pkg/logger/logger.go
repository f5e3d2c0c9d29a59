package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openacademia/catalog-api/pkg/config"
	"github.com/openacademia/catalog-api/pkg/middleware/requestid"
)

// Requests slower than this are logged at Warn so sluggish curriculum
// renders stand out without a tracing setup.
const slowRequestThreshold = 2 * time.Second

// New builds the process logger from the LOG_* config surface. Production
// gets JSON with sampling, everything else a development console logger;
// LOG_FORMAT and LOG_LEVEL override either base.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.Log.Format != "" {
		zapCfg.Encoding = cfg.Log.Format
	}
	if cfg.Log.Level != "" {
		if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			zapCfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build(zap.Fields(zap.String("service", "catalog-api")))
}

// GinMiddleware emits one structured line per request, tagged with the
// route template (not the raw path, so career and subject ids do not
// explode the log cardinality) and the request id.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}

		if latency >= slowRequestThreshold {
			l.Warn("slow_request", fields...)
			return
		}
		l.Info("http_request", fields...)
	}
}
