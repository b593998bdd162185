package vertx

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Request is a read-only view over an inbound *http.Request. Derived values
// are computed on first use and cached for the lifetime of the request.
type Request struct {
	raw *http.Request

	headersOnce sync.Once
	headers     *Headers

	queryOnce sync.Once
	query     map[string]string

	cookiesOnce sync.Once
	cookies     map[string]string

	bodyOnce sync.Once
	body     []byte
	bodyErr  error
}

func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying transport request.
func (r *Request) Raw() *http.Request {
	return r.raw
}

func (r *Request) String() string {
	return fmt.Sprintf("<Request:%s:%s>", r.Method(), r.Path())
}

func (r *Request) Method() string {
	return r.raw.Method
}

func (r *Request) Scheme() string {
	if r.raw.TLS != nil {
		return "https"
	}
	if r.raw.URL != nil && r.raw.URL.Scheme != "" {
		return r.raw.URL.Scheme
	}
	return "http"
}

func (r *Request) Host() string {
	if r.raw.Host != "" {
		return r.raw.Host
	}
	if r.raw.URL != nil {
		return r.raw.URL.Host
	}
	return ""
}

func (r *Request) Path() string {
	if r.raw.URL == nil {
		return ""
	}
	return r.raw.URL.Path
}

func (r *Request) QueryString() string {
	if r.raw.URL == nil {
		return ""
	}
	return r.raw.URL.RawQuery
}

func (r *Request) BaseURL() string {
	return r.Scheme() + "://" + r.Host()
}

func (r *Request) URL() string {
	u := r.BaseURL() + r.Path()
	if qs := r.QueryString(); qs != "" {
		u += "?" + qs
	}
	return u
}

// Query maps each query key to its last value. Blank values are kept.
func (r *Request) Query() map[string]string {
	r.queryOnce.Do(func() {
		r.query = make(map[string]string)
		values, _ := url.ParseQuery(r.QueryString())
		for k, vs := range values {
			if len(vs) > 0 {
				r.query[k] = vs[len(vs)-1]
			}
		}
	})
	return r.query
}

// Headers returns the request headers keyed case-insensitively. Repeated
// headers are joined with ", ".
func (r *Request) Headers() *Headers {
	r.headersOnce.Do(func() {
		r.headers = NewHeaders()
		for name, values := range r.raw.Header {
			r.headers.Set(strings.ToLower(name), strings.Join(values, ", "))
		}
		if host := r.Host(); host != "" && !r.headers.Has("host") {
			r.headers.Set("host", host)
		}
	})
	return r.headers
}

func (r *Request) Cookies() map[string]string {
	r.cookiesOnce.Do(func() {
		r.cookies = make(map[string]string)
		for _, c := range r.raw.Cookies() {
			r.cookies[c.Name] = c.Value
		}
	})
	return r.cookies
}

// Body reads and caches the full request body.
func (r *Request) Body() ([]byte, error) {
	r.bodyOnce.Do(func() {
		if r.raw.Body == nil {
			r.body = []byte{}
			return
		}
		r.body, r.bodyErr = io.ReadAll(r.raw.Body)
		_ = r.raw.Body.Close()
		r.raw.Body = io.NopCloser(bytes.NewReader(r.body))
	})
	return r.body, r.bodyErr
}

// IP is the first X-Forwarded-For entry, or the host part of the peer address.
func (r *Request) IP() string {
	if xff := r.raw.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.raw.RemoteAddr); err == nil {
		return host
	}
	return r.raw.RemoteAddr
}

func (r *Request) Referer() string {
	return r.raw.Referer()
}

func (r *Request) UserAgent() string {
	return r.raw.UserAgent()
}
