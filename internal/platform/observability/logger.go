package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogLevel  = "info"
	formatJSON       = "json"
	formatConsole    = "console"
	defaultLogFormat = formatJSON
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT. JSON
// output uses the field names Cloud Logging recognises; LOG_FORMAT=console
// switches to human readable lines for local work.
func NewLogger() (*zap.Logger, error) {
	return buildLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

func buildLogger(rawLevel, rawFormat string) (*zap.Logger, error) {
	return loggerConfig(rawLevel, rawFormat).Build()
}

func loggerConfig(rawLevel, rawFormat string) zap.Config {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(rawLevel)))); err != nil {
		_ = level.UnmarshalText([]byte(defaultLogLevel))
	}

	format := strings.ToLower(strings.TrimSpace(rawFormat))
	if format != formatConsole {
		format = defaultLogFormat
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
	}
	if format == formatConsole {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderCfg.EncodeDuration = zapcore.StringDurationEncoder
	}

	return zap.Config{
		Level:             level,
		Encoding:          format,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
}
