// internal/logger/pretty.go
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// CreatePrettyLogger creates a logger with user-friendly output on stderr
func CreatePrettyLogger(debug bool) (*zap.Logger, error) {
	return CreatePrettyLoggerTo(os.Stderr, debug)
}

// CreatePrettyLoggerTo пишет короткие цветные сообщения в w
func CreatePrettyLoggerTo(w io.Writer, debug bool) (*zap.Logger, error) {
	if w == nil {
		return nil, fmt.Errorf("writer is required for pretty logger")
	}
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(prettyEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(&FieldFilterCore{core: core}), nil
}

// FormatMessage creates user-friendly log messages
func FormatMessage(msg string, fields ...zapcore.Field) string {
	switch {
	case strings.Contains(msg, "Token configured"):
		symbol := extractField(fields, "symbol")
		return fmt.Sprintf("%s✓ Token %s configured%s", ColorGreen, symbol, ColorReset)

	case strings.Contains(msg, "Authority revoked"):
		flag := extractField(fields, "flag")
		return fmt.Sprintf("%s🔒 %s authority revoked%s", ColorPurple, flag, ColorReset)

	case strings.Contains(msg, "Fee estimated"):
		native := extractField(fields, "native")
		return fmt.Sprintf("%s💰 Estimated fee: %s SOL%s", ColorBlue, native, ColorReset)

	case strings.Contains(msg, "Pool seeded"):
		return fmt.Sprintf("%s🌱 Mock pool seeded: %s / %s%s", ColorCyan,
			extractField(fields, "reserve_a"), extractField(fields, "reserve_b"), ColorReset)

	case strings.Contains(msg, "Swap simulated"):
		return fmt.Sprintf("%s⚡ Swap %s: %s in, %s out%s", ColorCyan,
			extractField(fields, "direction"), extractField(fields, "amount_in"),
			extractField(fields, "amount_out"), ColorReset)

	case strings.Contains(msg, "Operation rejected"):
		reason := extractField(fields, "error")
		return fmt.Sprintf("%s✗ Rejected: %s%s", ColorYellow, reason, ColorReset)

	case strings.Contains(msg, "Scenario completed"):
		return fmt.Sprintf("%s🎉 Scenario completed%s", ColorGreen+ColorBold, ColorReset)

	default:
		return msg
	}
}

// Helper functions
func extractField(fields []zapcore.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch {
		case field.String != "":
			return field.String
		case field.Interface != nil:
			return fmt.Sprintf("%v", field.Interface)
		default:
			return fmt.Sprintf("%d", field.Integer)
		}
	}
	return ""
}

// ShortenAddress сокращает base58 адрес до вида abcd...wxyz
func ShortenAddress(addr string) string {
	if len(addr) > 8 {
		return addr[:4] + "..." + addr[len(addr)-4:]
	}
	return addr
}

// FieldFilterCore wraps a zapcore.Core, rewrites known messages and drops fields
type FieldFilterCore struct {
	core   zapcore.Core
	fields []zapcore.Field
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &FieldFilterCore{core: c.core, fields: merged}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field(nil), c.fields...), fields...)
	clean := entry
	clean.Message = FormatMessage(entry.Message, all...)
	return c.core.Write(clean, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

// CreateTUILoggerWithBuffer creates a TUI-compatible logger that only writes to buffer
func CreateTUILoggerWithBuffer(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	// Only use buffer core - NO console output to avoid breaking TUI
	bufferCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buffer),
		level,
	)

	return zap.New(bufferCore), nil
}
