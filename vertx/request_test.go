package vertx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestString(t *testing.T) {
	req := NewRequest(httptest.NewRequest(http.MethodPost, "/some/path", nil))
	assert.Equal(t, "<Request:POST:/some/path>", req.String())
}

func TestRequestURLParts(t *testing.T) {
	req := NewRequest(httptest.NewRequest(http.MethodGet, "http://example.com:8080/a/b?x=1&y=", nil))

	assert.Equal(t, "GET", req.Method())
	assert.Equal(t, "http", req.Scheme())
	assert.Equal(t, "example.com:8080", req.Host())
	assert.Equal(t, "/a/b", req.Path())
	assert.Equal(t, "x=1&y=", req.QueryString())
	assert.Equal(t, "http://example.com:8080", req.BaseURL())
	assert.Equal(t, "http://example.com:8080/a/b?x=1&y=", req.URL())
}

func TestRequestURLWithoutQuery(t *testing.T) {
	req := NewRequest(httptest.NewRequest(http.MethodGet, "http://example.com/a", nil))
	assert.Equal(t, "http://example.com/a", req.URL())
}

func TestRequestQueryKeepsBlankAndLastValue(t *testing.T) {
	req := NewRequest(httptest.NewRequest(http.MethodGet, "/?a=1&a=2&empty=&b=x%20y", nil))

	assert.Equal(t, map[string]string{"a": "2", "empty": "", "b": "x y"}, req.Query())
}

func TestRequestHeadersAreCaseInsensitive(t *testing.T) {
	raw := httptest.NewRequest(http.MethodGet, "/", nil)
	raw.Header.Set("X-Custom-Thing", "val")
	req := NewRequest(raw)

	assert.Equal(t, "val", req.Headers().Get("x-custom-thing"))
	assert.Equal(t, "val", req.Headers().Get("X-CUSTOM-THING"))
	assert.Equal(t, "example.com", req.Headers().Get("Host"))
	assert.Same(t, req.Headers(), req.Headers())
}

func TestRequestCookies(t *testing.T) {
	raw := httptest.NewRequest(http.MethodGet, "/", nil)
	raw.Header.Set("Cookie", "token=abc; theme=dark")
	req := NewRequest(raw)

	assert.Equal(t, map[string]string{"token": "abc", "theme": "dark"}, req.Cookies())
}

func TestRequestWithoutCookies(t *testing.T) {
	req := NewRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, req.Cookies())
}

func TestRequestBodyIsReadOnce(t *testing.T) {
	raw := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload"))
	req := NewRequest(raw)

	first, err := req.Body()
	require.NoError(t, err)
	second, err := req.Body()
	require.NoError(t, err)

	assert.Equal(t, []byte("payload"), first)
	assert.Equal(t, first, second)

	// the transport body stays readable for code holding the raw request
	rest, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(rest))
}

func TestRequestIP(t *testing.T) {
	raw := httptest.NewRequest(http.MethodGet, "/", nil)
	raw.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", NewRequest(raw).IP())

	raw = httptest.NewRequest(http.MethodGet, "/", nil)
	raw.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", NewRequest(raw).IP())
}

func TestRequestRefererAndUserAgent(t *testing.T) {
	raw := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, NewRequest(raw).Referer())

	raw.Header.Set("Referer", "http://example.com/from")
	raw.Header.Set("User-Agent", "test-agent")
	req := NewRequest(raw)
	assert.Equal(t, "http://example.com/from", req.Referer())
	assert.Equal(t, "test-agent", req.UserAgent())
}
