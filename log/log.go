// Package log is the logging facade of structeval.
//
// Library code only emits debug lines (search restarts, batch progress), so
// Default is a zap sugared logger at info level and scoring stays silent
// until SetLevel(LevelDebug). Replace Default to route the lines elsewhere.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level names accepted by SetLevel and Enabled.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Default receives every line logged through Debugf.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stderr),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

// Logger is the part of zap.SugaredLogger that structeval writes to.
type Logger interface {
	Debugf(format string, args ...any)
}

// SetLevel sets the level of the zap-backed Default logger. Any zap level
// name is accepted; unknown names fall back to info.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = zapcore.InfoLevel
	}
	zapLevel.SetLevel(l)
}

// Enabled reports whether the zap-backed Default logger would emit level.
// Hot loops check it before formatting debug arguments.
func Enabled(level string) bool {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return false
	}

	return zapLevel.Enabled(l)
}

// Debugf logs to Default at debug level in the manner of fmt.Printf.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }
