// Package logger configures the process logger and carries request scoped
// fields through a context.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey string

const requestIdKey contextKey = "request_id"

var log = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init sets the level ("debug", "info", ...) and the format ("text" or "json")
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	log.SetLevel(lvl)
	return nil
}

// SetOutput redirects the process logger
func SetOutput(out io.Writer) {
	log.SetOutput(out)
}

// WithRequestId returns a copy of ctx carrying the request id
func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKey, requestId)
}

// RequestId returns the request id stored in ctx, or ""
func RequestId(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}

// Logger returns an entry tagged with the request id of ctx when there is one
func Logger(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(log)
	if id := RequestId(ctx); id != "" {
		entry = entry.WithField(string(requestIdKey), id)
	}
	return entry
}
