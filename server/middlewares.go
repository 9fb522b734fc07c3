package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Daskott/contacts/colors"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

type RequestContextKey string

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6)

type ResponseWriterWithStatus struct {
	http.ResponseWriter
	Status      int
	wroteHeader bool
}

// WriteHeader forwards only the first status; later calls are dropped.
func (r *ResponseWriterWithStatus) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *ResponseWriterWithStatus) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		responseWriter := &ResponseWriterWithStatus{
			ResponseWriter: w,
			Status:         200,
		}

		defer func() {
			log.Println(
				requestID(r.Context()),
				r.Method,
				r.RequestURI,
				colors.Status(responseWriter.Status),
				colors.Yellow(fmt.Sprintf("[%v]", time.Since(start))))
		}()

		next.ServeHTTP(responseWriter, r)
	})
}

// serverErrorOnPanic answers a panicking handler with the standard error
// envelope, then re-panics so the recovery handler can log it.
func serverErrorOnPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				writeResponse(w, ResponsePayload{Message: "Server error"}, http.StatusInternalServerError)
				panic(err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware reuses the caller's X-Request-ID or generates one, and
// echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestContextKey("requestID"), id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestContextKey("requestID")).(string)
	return id
}

// metricsMiddleware records a counter and a latency histogram per route template.
func metricsMiddleware(set *metrics.Set) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			responseWriter := &ResponseWriterWithStatus{ResponseWriter: w, Status: 200}

			next.ServeHTTP(responseWriter, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if template, err := route.GetPathTemplate(); err == nil {
					path = template
				}
			}

			labels := fmt.Sprintf(`{method=%q,path=%q,status="%d"}`, r.Method, path, responseWriter.Status)
			set.GetOrCreateCounter(`http_requests_total` + labels).Inc()
			set.GetOrCreatePrometheusHistogramExt(`http_request_duration_seconds`+labels, buckets).UpdateDuration(start)
		})
	}
}
