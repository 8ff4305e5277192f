package accesslog

import (
	"context"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware appends an Entry for every request. Run it after
// middleware.RealIP so RemoteAddr holds the client address. A failed append
// is logged and never changes the response.
func Middleware(log Appender) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			e := Entry{
				Timestamp:  start.UTC(),
				IPHash:     HashIP(clientIP(r)),
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     status,
				DurationMS: math.Round(float64(time.Since(start).Microseconds())/10) / 100,
			}
			ctx := context.WithoutCancel(r.Context())
			if err := log.Append(ctx, e); err != nil {
				clog.FromContext(ctx).Warnf("request log: %v", err)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	return r.RemoteAddr
}
