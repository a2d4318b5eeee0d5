package logger

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

// LoggerMiddleware emits one JSON line per management API request.
func LoggerMiddleware(l Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			ev := Event{
				TS:            start.Format(time.RFC3339Nano),
				EventId:       uuid.NewString(),
				CorrelationId: middleware.GetReqID(r.Context()),
				Method:        r.Method,
				Path:          r.URL.Path,
				PeerIp:        peerIp(r),
				Code:          status,
				Bytes:         ww.BytesWritten(),
				LatencyMs:     time.Since(start).Milliseconds(),
			}
			if status >= 200 && status < 400 {
				ev.Result = "allow"
			} else {
				ev.Result = "error"
			}

			l.Write(ev)
		}
		return http.HandlerFunc(fn)
	}
}

type JsonLineLogger struct {
	Out ioWriter
}

type ioWriter interface {
	Write(p []byte) (n int, err error)
}

func (l JsonLineLogger) Write(event Event) {
	b, _ := json.Marshal(event)
	_, _ = l.Out.Write(append(b, '\n'))
}

func peerIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
