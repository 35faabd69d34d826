package logging

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the injected application logger: zap wrapped with otelzap so
// every entry written through Ctx() carries trace/span ids.
type Logger struct {
	Logger *otelzap.Logger
}

func New(environment string) (*Logger, error) {
	config := zap.NewProductionConfig()

	if environment == "development" {
		config = zap.NewDevelopmentConfig()
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &Logger{
		Logger: otelzap.New(zapLogger),
	}, nil
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
