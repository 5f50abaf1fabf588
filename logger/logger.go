package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// StatusCode tags a log line with the kind of work it reports on
type StatusCode string

const (
	StatusInit StatusCode = "INIT" // Startup, graph loading
	StatusOK   StatusCode = "OK"   // Success confirmation
	StatusErr  StatusCode = "ERR"  // Errors/failures
	StatusWarn StatusCode = "WARN" // Warnings/caution
	StatusData StatusCode = "DATA" // Trade rows, sources
	StatusLink StatusCode = "LINK" // Bridging companies
	StatusChk  StatusCode = "CHK"  // Lookup/validation
	StatusCor  StatusCode = "COR"  // Companies
	StatusMat  StatusCode = "MAT"  // Commodities
	StatusQry  StatusCode = "QRY"  // Query resolution
	StatusSave StatusCode = "SAVE" // Subgraph export
	StatusNet  StatusCode = "NET"  // HTTP/websocket
	StatusEvt  StatusCode = "EVT"  // Published events
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

// Logger handles all logging operations. Leveled lines go through zap;
// Plain and Section write straight to the output.
type Logger struct {
	mu           sync.Mutex
	out          io.Writer
	level        LogLevel
	enableColors bool
	noColors     bool // Force disable colors (e.g., when piped)
	sugar        *zap.SugaredLogger
}

var globalLogger *Logger
var once sync.Once

// New builds a logger writing to out.
func New(level string, enableColors bool, out io.Writer) *Logger {
	l := &Logger{
		out:          out,
		level:        parseLevel(level),
		enableColors: enableColors,
		noColors:     out != os.Stdout || !isTerminal() || os.Getenv("NO_COLOR") != "",
	}
	l.build()
	return l
}

// Init initializes the global logger
func Init(level string, enableColors bool) {
	once.Do(func() {
		globalLogger = New(level, enableColors, os.Stdout)
	})
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	Init("info", true)
	return globalLogger
}

// SetOutput redirects the global logger, e.g. into the TUI log pane.
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// SetOutput redirects this logger. Colors are dropped for non-terminal writers.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.noColors = true
	l.build()
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// build wires the zap core to the current output (must be called with lock held or before sharing)
func (l *Logger) build() {
	encCfg := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if l.enableColors && !l.noColors {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(l.out)),
		zapLevel(l.level),
	)
	l.sugar = zap.New(core).Sugar()
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// parseLevel converts string to LogLevel
func parseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// isTerminal checks if output is a terminal (not piped)
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// colorize applies ANSI color codes if enabled
func (l *Logger) colorize(color, text string) string {
	if l.enableColors && !l.noColors {
		return color + text + colorReset
	}
	return text
}

// getStatusColor returns the appropriate color for a status code
func (l *Logger) getStatusColor(status StatusCode) string {
	switch status {
	case StatusInit, StatusOK, StatusSave:
		return colorGreen
	case StatusErr:
		return colorRed
	case StatusWarn:
		return colorYellow
	case StatusData, StatusChk, StatusQry, StatusEvt:
		return colorBlue
	case StatusLink, StatusCor, StatusMat, StatusNet:
		return colorCyan
	default:
		return colorWhite
	}
}

// formatMessage builds the log message with its status tag
func (l *Logger) formatMessage(depth int, status StatusCode, format string, args ...interface{}) string {
	message := fmt.Sprintf(format, args...)

	var statusStr string
	if status != "" {
		statusStr = fmt.Sprintf("[%s] ", status)
		statusStr = l.colorize(l.getStatusColor(status), statusStr)
	}

	return fmt.Sprintf("%s%s%s", strings.Repeat("  ", depth), statusStr, message)
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, depth int, status StatusCode, format string, args ...interface{}) {
	l.mu.Lock()
	sugar := l.sugar
	msg := l.formatMessage(depth, status, format, args...)
	l.mu.Unlock()

	switch level {
	case DEBUG:
		sugar.Debug(msg)
	case WARN:
		sugar.Warn(msg)
	case ERROR:
		sugar.Error(msg)
	default:
		sugar.Info(msg)
	}
}

// Debug logs a debug message
func Debug(status StatusCode, format string, args ...interface{}) {
	GetLogger().log(DEBUG, 0, status, format, args...)
}

// Info logs an informational message
func Info(status StatusCode, format string, args ...interface{}) {
	GetLogger().log(INFO, 0, status, format, args...)
}

// InfoDepth logs an informational message with indentation
func InfoDepth(depth int, status StatusCode, format string, args ...interface{}) {
	GetLogger().log(INFO, depth, status, format, args...)
}

// Warn logs a warning message
func Warn(status StatusCode, format string, args ...interface{}) {
	GetLogger().log(WARN, 0, status, format, args...)
}

// Error logs an error message
func Error(status StatusCode, format string, args ...interface{}) {
	GetLogger().log(ERROR, 0, status, format, args...)
}

// Success logs a success message (always uses StatusOK)
func Success(format string, args ...interface{}) {
	GetLogger().log(INFO, 0, StatusOK, format, args...)
}

// Info logs an informational message on this logger
func (l *Logger) Info(status StatusCode, format string, args ...interface{}) {
	l.log(INFO, 0, status, format, args...)
}

// Warn logs a warning on this logger
func (l *Logger) Warn(status StatusCode, format string, args ...interface{}) {
	l.log(WARN, 0, status, format, args...)
}

// Error logs an error on this logger
func (l *Logger) Error(status StatusCode, format string, args ...interface{}) {
	l.log(ERROR, 0, status, format, args...)
}

// Debug logs a debug message on this logger
func (l *Logger) Debug(status StatusCode, format string, args ...interface{}) {
	l.log(DEBUG, 0, status, format, args...)
}

// Plain logs a message without status code or timestamp (for special formatting)
func Plain(format string, args ...interface{}) {
	GetLogger().Plain(format, args...)
}

// Plain writes a raw line on this logger
func (l *Logger) Plain(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Separator prints a visual separator line
func Separator() {
	Plain("==================================================")
}

// Section prints a section header
func Section(title string) {
	Separator()
	Plain("   %s", title)
	Separator()
}
