package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L and S are no-op loggers until Init succeeds.
var (
	L       = zap.NewNop()
	S       = L.Sugar()
	logFile *os.File
)

// Init points the global logger at ~/.config/qemacs/qemacs.log
// (QEMACS_LOG_FILE overrides the path).
func Init(debug bool) error {
	logPath, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}

	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(logFile), level)

	L = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	S = L.Sugar()

	S.Infow("logger initialized", "path", logPath, "debug", debug)
	return nil
}

// Use installs an existing logger, e.g. one backed by an observer core in tests.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	L = l
	S = l.Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// Close flushes and closes the log file.
func Close() {
	_ = L.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Path returns where Init writes the log.
func Path() (string, error) {
	if v := os.Getenv("QEMACS_LOG_FILE"); v != "" {
		return v, nil
	}
	if v := os.Getenv("QEMACS_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qemacs.log"), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qemacs", "qemacs.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qemacs", "qemacs.log"), nil
}

func Debug(msg string, keysAndValues ...interface{}) {
	S.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	S.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	S.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	S.Errorw(msg, keysAndValues...)
}
