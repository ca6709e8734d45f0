package log

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var base atomic.Pointer[zerolog.Logger]

func init() {
	Init(os.Stdout, "info")
}

// Init replaces the process logger. Unknown levels fall back to info.
func Init(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	base.Store(&l)
}

// L returns the process logger for code that has no request context.
func L() *zerolog.Logger { return base.Load() }

func write(ev *zerolog.Event, c *fiber.Ctx, action string, err error, fields map[string]any) {
	if c != nil {
		ev = ev.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
	}
	if err != nil {
		ev = ev.Str("err", err.Error())
	}
	if len(fields) > 0 {
		ev = ev.Interface("fields", fields)
	}
	ev.Str("action", action).Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(L().Info(), c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(L().Info().Str("kind", "audit"), c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(L().Warn(), c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(L().Error(), c, action, err, fields)
}

// Middleware writes one access line per request after the handler chain ran.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			// the app error handler has not run yet
			if fe, ok := chainErr.(*fiber.Error); ok {
				status = fe.Code
			} else if sc, ok := chainErr.(interface{ HTTPStatus() int }); ok {
				status = sc.HTTPStatus()
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := L().Info()
		if status >= fiber.StatusInternalServerError {
			ev = L().Error()
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("action", "http.request").
			Send()
		return chainErr
	}
}
