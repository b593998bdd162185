package server

import (
	"context"
	"io"
	"net"
	"net/http"

	"go-vertx/vertx"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// BuildRequest normalizes the transport request before the dispatch tree
// sees it and returns the request ID used for logging and tracing.
//
// The raw request is cloned so the caller's headers are left untouched. The
// body is shared but fails reads once r's context is done, since a timed out
// tree may still be running after the handler has returned.
func BuildRequest(r *http.Request) (*vertx.Request, string) {
	clone := r.Clone(r.Context())

	headers := make(http.Header, len(r.Header)+3)
	for name, values := range r.Header {
		// copy the slice so we don't share backing arrays with r.Header
		copied := make([]string, len(values))
		copy(copied, values)
		headers[http.CanonicalHeaderKey(name)] = copied
	}

	// ensure Host is present
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	if host != "" {
		headers.Set("Host", host)
	}

	// add / extend X-Forwarded-For with the direct client IP
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && ip != "" {
		if existing := headers.Get("X-Forwarded-For"); existing != "" {
			headers.Set("X-Forwarded-For", existing+", "+ip)
		} else {
			headers.Set("X-Forwarded-For", ip)
		}
	}

	id := headers.Get(RequestIDHeader)
	if id == "" {
		id = uuid.New().String()
		headers.Set(RequestIDHeader, id)
	}

	clone.Header = headers
	if clone.Body != nil && clone.Body != http.NoBody {
		clone.Body = &ctxBody{ctx: r.Context(), ReadCloser: clone.Body}
	}
	return vertx.NewRequest(clone), id
}

// ctxBody refuses reads after ctx is done.
type ctxBody struct {
	ctx context.Context
	io.ReadCloser
}

func (b *ctxBody) Read(p []byte) (int, error) {
	if err := b.ctx.Err(); err != nil {
		return 0, err
	}
	return b.ReadCloser.Read(p)
}
