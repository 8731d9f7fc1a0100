package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu sync.Mutex

	appLogger    *zap.SugaredLogger
	accessLogger *zap.SugaredLogger

	logLevel      string
	level         = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	appLogFile    *lumberjack.Logger
	accessLogFile *lumberjack.Logger
	initialized   bool
)

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) onto a zap level. Unknown values
// fall back to INFO.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func openRotating(path string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
	}, nil
}

// InitGlobalLoggers (re)configures the app and access loggers. Errors are always
// mirrored to stderr. An empty path, or one that cannot be created, discards that
// log's Info/Debug output.
func InitGlobalLoggers(appLogPath, accessLogPath, lvl string) error {
	mu.Lock()
	defer mu.Unlock()

	newLevel := strings.ToUpper(lvl)
	if newLevel == "" {
		newLevel = "INFO"
	}
	if initialized && newLevel == logLevel && appLogFile != nil && appLogFile.Filename == appLogPath {
		return nil
	}
	closeFilesLocked()

	logLevel = newLevel
	level.SetLevel(ParseLevel(logLevel))

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig())
	stderrCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), zapcore.ErrorLevel)

	var warnings []string
	appCore := stderrCore
	actualAppLogPath := "(discarded)"
	if appLogPath != "" {
		f, err := openRotating(appLogPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to create app log directory for %s: %v", appLogPath, err))
		} else {
			appLogFile = f
			actualAppLogPath = appLogPath
			appCore = zapcore.NewTee(zapcore.NewCore(consoleEncoder, zapcore.AddSync(f), level), stderrCore)
		}
	}
	appLogger = zap.New(appCore, zap.AddCaller(), zap.AddCallerSkip(1)).Named("app").Sugar()

	accessCore := stderrCore
	actualAccessLogPath := "(discarded)"
	if accessLogPath != "" {
		f, err := openRotating(accessLogPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to create access log directory for %s: %v", accessLogPath, err))
		} else {
			accessLogFile = f
			actualAccessLogPath = accessLogPath
			accessCore = zapcore.NewTee(zapcore.NewCore(consoleEncoder, zapcore.AddSync(f), level), stderrCore)
		}
	}
	accessLogger = zap.New(accessCore).Named("access").Sugar()

	for _, w := range warnings {
		appLogger.Error(w)
	}
	if !initialized {
		appLogger.Infof("App logger initialized. Log level: %s. Output file: %s", logLevel, actualAppLogPath)
		accessLogger.Infof("Access logger initialized. Output file: %s", actualAccessLogPath)
	}
	initialized = true
	return nil
}

// Level returns the active level name.
func Level() string {
	mu.Lock()
	defer mu.Unlock()
	return logLevel
}

func Info(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Infof(format, v...)
	}
}

func Debug(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Debugf(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Warnf(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Errorf(format, v...)
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", v...)
}

func Fatal(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Fatalf(format, v...)
	}
	fmt.Fprintf(os.Stderr, "FATAL: "+format+"\n", v...)
	os.Exit(1)
}

// AccessInfo writes one request line to the access log.
func AccessInfo(format string, v ...interface{}) {
	if accessLogger != nil {
		accessLogger.Infof(format, v...)
	}
}

func AccessError(format string, v ...interface{}) {
	if accessLogger != nil {
		accessLogger.Errorf(format, v...)
	}
}

func closeFilesLocked() {
	if appLogger != nil {
		_ = appLogger.Sync()
	}
	if accessLogger != nil {
		_ = accessLogger.Sync()
	}
	if appLogFile != nil {
		appLogFile.Close()
		appLogFile = nil
	}
	if accessLogFile != nil {
		accessLogFile.Close()
		accessLogFile = nil
	}
}

func CloseLogFiles() {
	mu.Lock()
	defer mu.Unlock()
	if appLogger != nil && appLogFile != nil {
		appLogger.Info("Closing app log file.")
	}
	closeFilesLocked()
	initialized = false // allow re-initialization (tests)
}
