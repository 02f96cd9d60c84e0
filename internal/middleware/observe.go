package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/internal/models"
	logger "github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// ErrorSink stores server-side failures. services.ActivityService
// implements it.
type ErrorSink interface {
	RecordError(ctx context.Context, entry *models.ErrorLog)
}

// statusRecorder captures the status code and the error behind a 5xx reply.
// It implements the error recorder hook of httputil.RespondWithAppError.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	err         error
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// RecordError keeps the error for the error log.
func (r *statusRecorder) RecordError(err error) {
	r.err = err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Observe assigns a request ID, recovers panics, logs the request, records
// Prometheus metrics and stores 5xx failures through sink. sink may be nil.
func Observe(sink ErrorSink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 64 {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			state := &requestState{}
			ctx := context.WithValue(r.Context(), requestIDKey, requestID)
			ctx = context.WithValue(ctx, stateKey, state)
			r = r.WithContext(ctx)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			metrics.TrackActiveRequest(true)

			defer func() {
				metrics.TrackActiveRequest(false)

				if p := recover(); p != nil {
					logger.Error("[HTTP] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
					err := fmt.Errorf("panic: %v", p)
					if !rec.wroteHeader {
						httputil.RespondWithAppError(rec, err)
					} else {
						rec.status = http.StatusInternalServerError
						rec.err = err
					}
				}

				duration := time.Since(start)
				route := routeTemplate(r)
				metrics.RecordAPIRequest(r.Method, route, rec.status, duration)

				if rec.status >= http.StatusInternalServerError {
					logger.Error("[HTTP] %s %s -> %d (%s) request_id=%s err=%v", r.Method, r.URL.Path, rec.status, duration, requestID, rec.err)
					recordFailure(sink, r, requestID, rec, state.actor)
				} else {
					logger.Debug("[HTTP] %s %s -> %d (%s) request_id=%s", r.Method, r.URL.Path, rec.status, duration, requestID)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func recordFailure(sink ErrorSink, r *http.Request, requestID string, rec *statusRecorder, actor *models.Actor) {
	if sink == nil {
		return
	}
	message := http.StatusText(rec.status)
	if rec.err != nil {
		message = rec.err.Error()
	}
	entry := &models.ErrorLog{
		RequestID:  requestID,
		Method:     r.Method,
		Path:       r.URL.Path,
		StatusCode: rec.status,
		Message:    message,
	}
	if actor != nil {
		role, id := actor.Role, actor.ID
		entry.ActorType = &role
		entry.ActorID = &id
	}
	// The request context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancel()
	sink.RecordError(ctx, entry)
}
