package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how log lines are written.
type Options struct {
	// Format is "console" (colored, human readable) or "json".
	Format string
	// Level is one of debug, info, warn, error.
	Level string
	// File, when set, receives JSON lines in addition to the console.
	File string
}

// Logger writes category-tagged log lines. Console output is colorized;
// structured output goes through zap.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	console bool
	level   zapcore.Level
	z       *zap.Logger
	file    *os.File
}

var (
	debugColor    = color.New(color.FgHiBlack)
	infoColor     = color.New(color.FgGreen)
	warnColor     = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed, color.Bold)
	categoryColor = color.New(color.FgCyan)
	processColor  = color.New(color.FgMagenta)
	databaseColor = color.New(color.FgBlue)
	paymentColor  = color.New(color.FgHiGreen)
	securityColor = color.New(color.FgHiRed)
	eventColor    = color.New(color.FgHiBlue)
	cacheColor    = color.New(color.FgHiCyan)
)

// NewLogger builds a Logger from opts. Unknown formats fall back to console.
func NewLogger(opts Options) *Logger {
	lvl := zapcore.InfoLevel
	if opts.Level != "" {
		if err := lvl.Set(strings.ToLower(opts.Level)); err != nil {
			lvl = zapcore.InfoLevel
		}
	}

	l := &Logger{
		out:     os.Stdout,
		console: opts.Format != "json",
		level:   lvl,
	}

	var cores []zapcore.Core
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if !l.console {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), lvl))
	}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			l.file = f
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), lvl))
		} else {
			fmt.Fprintf(os.Stderr, "logger: cannot open %s: %v\n", opts.File, err)
		}
	}
	if len(cores) > 0 {
		l.z = zap.New(zapcore.NewTee(cores...))
	} else {
		l.z = zap.NewNop()
	}
	return l
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{out: io.Discard, console: false, level: zapcore.FatalLevel, z: zap.NewNop()}
}

// NewWriter returns a console Logger writing to w. Colors are disabled.
func NewWriter(w io.Writer) *Logger {
	return &Logger{out: w, console: true, level: zapcore.DebugLevel, z: zap.NewNop()}
}

// Zap exposes the structured logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

func (l *Logger) write(lvl zapcore.Level, tag *color.Color, category, msg string, fields ...zap.Field) {
	if lvl < l.level {
		return
	}

	if ce := l.z.Check(lvl, msg); ce != nil {
		ce.Write(append(fields, zap.String("category", category))...)
	}

	if !l.console {
		return
	}

	ts := time.Now().Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("%s %s %s %s\n",
		ts,
		tag.Sprintf("%-5s", strings.ToUpper(lvl.String())),
		categoryColor.Sprintf("[%s]", category),
		msg)

	l.mu.Lock()
	_, _ = io.WriteString(l.out, line)
	l.mu.Unlock()
}

func (l *Logger) levelColor(lvl zapcore.Level) *color.Color {
	switch lvl {
	case zapcore.DebugLevel:
		return debugColor
	case zapcore.WarnLevel:
		return warnColor
	case zapcore.ErrorLevel, zapcore.FatalLevel:
		return errorColor
	default:
		return infoColor
	}
}

func (l *Logger) Debug(category, msg string) {
	l.write(zapcore.DebugLevel, l.levelColor(zapcore.DebugLevel), category, msg)
}

func (l *Logger) Info(category, msg string) {
	l.write(zapcore.InfoLevel, l.levelColor(zapcore.InfoLevel), category, msg)
}

func (l *Logger) Warn(category, msg string) {
	l.write(zapcore.WarnLevel, l.levelColor(zapcore.WarnLevel), category, msg)
}

func (l *Logger) Error(category, msg string) {
	l.write(zapcore.ErrorLevel, l.levelColor(zapcore.ErrorLevel), category, msg)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(category, msg string) {
	l.write(zapcore.ErrorLevel, l.levelColor(zapcore.FatalLevel), category, msg)
	l.Close()
	os.Exit(1)
}

// LogProcess records a startup/shutdown or lifecycle step.
func (l *Logger) LogProcess(category, msg string) {
	l.write(zapcore.InfoLevel, processColor, category, msg, zap.String("kind", "process"))
}

// LogDatabase records a store operation.
func (l *Logger) LogDatabase(op, db, msg string) {
	l.write(zapcore.DebugLevel, databaseColor, "DB:"+db, op+" "+msg,
		zap.String("kind", "database"), zap.String("op", op), zap.String("db", db))
}

// LogAPI records a completed HTTP request.
func (l *Logger) LogAPI(method, path, status, duration string) {
	l.write(zapcore.InfoLevel, infoColor, "API", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration),
		zap.String("kind", "api"), zap.String("method", method), zap.String("path", path),
		zap.String("status", status), zap.String("duration", duration))
}

// LogPayment records a payment bridge step.
func (l *Logger) LogPayment(action, id, msg string) {
	l.write(zapcore.InfoLevel, paymentColor, "PAYMENT", fmt.Sprintf("%s %s: %s", action, id, msg),
		zap.String("kind", "payment"), zap.String("action", action), zap.String("id", id))
}

// LogSecurity records an auth or abuse related event.
func (l *Logger) LogSecurity(event, msg string) {
	l.write(zapcore.WarnLevel, securityColor, "SECURITY", event+": "+msg,
		zap.String("kind", "security"), zap.String("event", event))
}

// LogKafka records a producer or consumer step.
func (l *Logger) LogKafka(action, topic, msg string) {
	l.write(zapcore.DebugLevel, eventColor, "KAFKA", fmt.Sprintf("%s %s: %s", action, topic, msg),
		zap.String("kind", "kafka"), zap.String("action", action), zap.String("topic", topic))
}

// LogCache records a cache hit, miss or invalidation.
func (l *Logger) LogCache(action, key, msg string) {
	l.write(zapcore.DebugLevel, cacheColor, "CACHE", fmt.Sprintf("%s %s: %s", action, key, msg),
		zap.String("kind", "cache"), zap.String("action", action), zap.String("key", key))
}

// Close flushes the structured sink and closes the log file, if any.
func (l *Logger) Close() {
	_ = l.z.Sync()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}
