package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

// RequestLogger writes one structured line per request.
type RequestLogger struct {
	log *slog.Logger
}

func NewRequestLogger(log *slog.Logger) *RequestLogger {
	return &RequestLogger{log: log}
}

func (m *RequestLogger) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		status := c.Response().Status
		attrs := []any{
			slog.String("method", req.Method),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if sc := trace.SpanContextFromContext(req.Context()); sc.HasTraceID() {
			attrs = append(attrs, slog.String("trace", sc.TraceID().String()))
		}

		switch {
		case status >= 500:
			m.log.ErrorContext(req.Context(), "request failed", attrs...)
		case status >= 400:
			m.log.WarnContext(req.Context(), "request rejected", attrs...)
		default:
			m.log.DebugContext(req.Context(), "request served", attrs...)
		}
		return nil
	}
}
