package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const logFieldsKey ctxKey = 0

func withLogFields(ctx context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(ctx, logFieldsKey, fields)
}

// entry returns a log entry carrying the request's fields.
func entry(log *logrus.Logger, r *http.Request) *logrus.Entry {
	if fields, ok := r.Context().Value(logFieldsKey).(logrus.Fields); ok {
		return log.WithFields(fields)
	}
	return logrus.NewEntry(log)
}

// withRequestID tags every request with an id, taken from the client header
// when present, so a partial-commit log line can be tied back to the request
// that caused it.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(withLogFields(r.Context(), logrus.Fields{"requestID": id})))
	})
}

// withLogging logs one line per request with method, path, status and elapsed
// time.
func withLogging(log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		entry(log, r).WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  sw.status,
			"elapsed": time.Since(start).String(),
		}).Info("request served")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
