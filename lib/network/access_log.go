package network

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	logging "github.com/inconshreveable/log15"
)

const HeaderRequestID = "X-Request-Id"

// serverErrorLog sends the errors of `http.Server` to log15.
type serverErrorLog struct {
	l logging.Logger
}

func (w serverErrorLog) Write(b []byte) (int, error) {
	w.l.Error("http server", "error", string(b))
	return len(b), nil
}

// responseRecorder keeps the status and the body size of a response. It
// flushes through, so event streams keep working behind it.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	if rr, ok := w.(*responseRecorder); ok {
		return rr
	}

	return &responseRecorder{ResponseWriter: w}
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	size, err := rr.ResponseWriter.Write(b)
	rr.size += size
	return size, err
}

func (rr *responseRecorder) WriteHeader(s int) {
	rr.ResponseWriter.WriteHeader(s)
	rr.status = s
}

func (rr *responseRecorder) Status() int {
	if rr.status == 0 {
		return http.StatusOK
	}
	return rr.status
}

func (rr *responseRecorder) Flush() {
	if f, ok := rr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// accessLog tags every request with an id, echoed in `X-Request-Id`, and logs
// it once it is answered.
type accessLog struct {
	log     logging.Logger
	handler http.Handler
}

func (a accessLog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()

	id := r.Header.Get(HeaderRequestID)
	if len(id) < 1 {
		id = uuid.New().String()
	}
	w.Header().Set(HeaderRequestID, id)

	rr := newResponseRecorder(w)
	a.handler.ServeHTTP(rr, r)

	a.log.Debug(
		"request",
		"id", id,
		"method", r.Method,
		"uri", r.URL.RequestURI(),
		"proto", r.Proto,
		"remote", r.RemoteAddr,
		"user-agent", r.UserAgent(),
		"status", rr.Status(),
		"size", rr.size,
		"elapsed", time.Since(begin),
	)
}
