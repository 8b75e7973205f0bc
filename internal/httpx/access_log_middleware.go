package httpx

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder remembers what a handler sent so it can be logged.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
	sent    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.sent {
		return
	}
	sr.status = code
	sr.sent = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.sent {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.written += int64(n)
	return n, err
}

// Flush lets CSV downloads stream through the recorder.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AccessLog writes one line per request once the handler returns. CSV
// responses also log the attachment name.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sr, r)

		line := "access method=%s path=%s query=%q status=%d bytes=%d duration_ms=%d client=%s request_id=%s"
		args := []any{r.Method, r.URL.Path, r.URL.RawQuery, sr.status, sr.written,
			time.Since(start).Milliseconds(), clientKey(r), RequestIDFrom(r)}
		if cd := sr.Header().Get("Content-Disposition"); cd != "" {
			line += " disposition=%q"
			args = append(args, cd)
		}
		log.Printf(line, args...)
	})
}
