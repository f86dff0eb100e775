package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "ts"
}

// Init configures the process logger. Outside production a human readable
// console writer is used; production emits one JSON object per line.
func Init(env, level string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	var l zerolog.Logger
	if env == "production" {
		l = zerolog.New(w)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}
	l = l.Level(lvl).With().Timestamp().Logger()

	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetOutput redirects JSON output to w. Tests use it to capture events.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = zerolog.New(w).With().Timestamp().Logger()
	mu.Unlock()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func write(level zerolog.Level, kind string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := current()
	e := l.WithLevel(level)
	if e == nil {
		return
	}
	e = e.Str("action", action)
	if kind != "" {
		e = e.Str("kind", kind)
	}
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
	}
	if err != nil {
		e = e.Str("err", err.Error())
	}
	if len(fields) > 0 {
		e = e.Interface("fields", fields)
	}
	e.Send()
}

func Debug(c *fiber.Ctx, action string, fields map[string]any) {
	write(zerolog.DebugLevel, "", c, action, nil, fields)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(zerolog.InfoLevel, "", c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(zerolog.InfoLevel, "audit", c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zerolog.WarnLevel, "security", c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zerolog.ErrorLevel, "", c, action, err, fields)
}
