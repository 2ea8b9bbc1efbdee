package middleware

import (
	"bytes"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const cacheTTL = 5 * time.Minute

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// Cache memoizes successful GET responses per user and path. Insight
// computations walk 90 days of transactions; repeated dashboard polls
// within the TTL are served from memory instead.
func Cache(size int) func(http.Handler) http.Handler {
	store := lru.NewLRU[string, cachedResponse](size, nil, cacheTTL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := UserID(r.Context()) + "|" + r.URL.RequestURI()
			if cached, ok := store.Get(key); ok {
				w.Header().Set("Content-Type", cached.contentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(cached.status)
				w.Write(cached.body)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.statusCode == http.StatusOK {
				store.Add(key, cachedResponse{
					status:      rec.statusCode,
					contentType: rec.Header().Get("Content-Type"),
					body:        rec.buf.Bytes(),
				})
			}
		})
	}
}

// recordingWriter tees the response body so it can be cached.
type recordingWriter struct {
	http.ResponseWriter
	statusCode int
	buf        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(p []byte) (int, error) {
	rw.buf.Write(p)
	return rw.ResponseWriter.Write(p)
}
