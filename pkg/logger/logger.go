// Package logger provides the process-wide slog logger and a request-scoped
// variant carried on the context.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order reconciled", "external_order_id", id)
//	// → time=... level=INFO msg="order reconciled" request_id=a1b2c3d4 external_order_id=123
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/liftstore/config"
)

var L *slog.Logger

func init() {
	L = slog.New(consoleHandler(os.Stdout, config.IsProduction()))
	slog.SetDefault(L)
}

func consoleHandler(w io.Writer, production bool) slog.Handler {
	if production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup rebuilds the base logger. When LOG_MONGO_URI is set, warnings and
// errors are additionally shipped to MongoDB. The returned func flushes and
// disconnects the sink; it is never nil.
func Setup() (func(), error) {
	console := consoleHandler(os.Stdout, config.IsProduction())

	uri := config.LogMongoURI()
	if uri == "" {
		Replace(slog.New(console))
		return func() {}, nil
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection(), slog.LevelWarn)
	if err != nil {
		Replace(slog.New(console))
		return func() {}, err
	}

	Replace(slog.New(NewMultiHandler(console, mh)))
	return mh.Close, nil
}

// Replace swaps the base logger. Tests use it to capture output.
func Replace(l *slog.Logger) {
	L = l
	slog.SetDefault(l)
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the Logger middleware,
// or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
