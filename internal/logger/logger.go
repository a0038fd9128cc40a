// Logger пакет для инициализации логгера zap
package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New создает production-логгер с регулируемым уровнем.
func New(level zap.AtomicLevel) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// RequestLogger - middleware логирования запросов для gin.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"uri", c.Request.RequestURI,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"size", c.Writer.Size(),
		)
	}
}
