package vertx

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finalize collects what a transport would see.
func finalize(t *testing.T, r *Response) (string, []HeaderPair, []byte) {
	t.Helper()
	var status string
	var headers []HeaderPair
	var body bytes.Buffer
	for chunk, err := range r.Finalize(func(s string, h []HeaderPair) {
		status, headers = s, h
	}) {
		require.NoError(t, err)
		body.Write(chunk)
	}
	return status, headers, body.Bytes()
}

func TestResponseString(t *testing.T) {
	r := NewResponse()
	assert.Equal(t, "<Response:0h:0b>", r.String())

	r.Headers.Set("X-A", "1")
	r.SetBody("abc")
	assert.Equal(t, "<Response:1h:3b>", r.String())
}

func TestResponseDefaults(t *testing.T) {
	r := NewResponse()
	assert.Equal(t, http.StatusNotFound, r.Status)
	assert.Equal(t, 0, r.Headers.Len())
	assert.Equal(t, []string{}, r.Cookies)
	assert.Equal(t, []byte{}, r.Body())
	assert.Empty(t, r.FilePath())
}

func TestSetBodyConvertsStrings(t *testing.T) {
	r := NewResponse()
	r.SetBody("hello world")
	assert.Equal(t, []byte("hello world"), r.Body())
}

func TestWriteConcatenatesOntoStringBody(t *testing.T) {
	r := NewResponse()
	r.SetBody("hello")
	_, err := r.Write([]byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), r.Body())
}

func TestSetBodyUsesStringRepresentation(t *testing.T) {
	r := NewResponse()
	r.SetBody(42)
	assert.Equal(t, []byte("42"), r.Body())

	r.SetBody(map[string]string{"foo": "bar"})
	assert.Equal(t, []byte("map[foo:bar]"), r.Body())
}

func TestSetBodyNilEmptiesBody(t *testing.T) {
	r := NewResponse()
	r.SetBody("stale")
	r.SetBody(nil)
	assert.Empty(t, r.Body())
}

func TestSetBodyUnicodeRoundTrip(t *testing.T) {
	r := NewResponse()
	r.SetBody("olá, açaí")
	_, _, body := finalize(t, r)
	assert.Equal(t, []byte("olá, açaí"), body)
}

func TestResponseHeadersAreCaseInsensitive(t *testing.T) {
	r := NewResponse()
	r.Headers.Set("foo", "bar")
	assert.Equal(t, "bar", r.Headers.Get("FOO"))
}

func TestResponseIsAnError(t *testing.T) {
	r := NewResponse()
	var err error = Bounce(r)

	got, ok := AsBounce(err)
	require.True(t, ok)
	assert.Same(t, r, got)

	_, ok = AsBounce(errors.New("plain"))
	assert.False(t, ok)
}

func TestFinalizeEmptyResponse(t *testing.T) {
	status, headers, body := finalize(t, NewResponse())

	assert.Equal(t, "404 Not Found", status)
	assert.Empty(t, headers)
	assert.Empty(t, body)
}

func TestFinalizeFilledResponse(t *testing.T) {
	r := NewResponse()
	r.Status = http.StatusBadRequest
	r.Headers.Set("Content-Type", "application/json")
	r.SetBody([]byte(`{"error":"Invalid token"}`))

	status, headers, body := finalize(t, r)

	assert.Equal(t, "400 Bad Request", status)
	assert.Equal(t, []HeaderPair{{Name: "Content-Type", Value: "application/json"}}, headers)
	assert.Equal(t, []byte(`{"error":"Invalid token"}`), body)
}

func TestFinalizeInvalidTokenThroughTree(t *testing.T) {
	node := NewFunc(func(_ *Request, resp *Response) (*Response, error) {
		resp.Status = http.StatusBadRequest
		resp.Headers.Set("Content-Type", "application/json")
		resp.SetBody(`{"error":"Invalid token"}`)
		return resp, nil
	})

	resp, err := node.Submit(newTestRequest(), nil)
	require.NoError(t, err)

	status, headers, body := finalize(t, resp)
	assert.Equal(t, "400 Bad Request", status)
	assert.Equal(t, []HeaderPair{{Name: "Content-Type", Value: "application/json"}}, headers)
	assert.Equal(t, `{"error":"Invalid token"}`, string(body))
}

func TestFinalizeUnknownStatus(t *testing.T) {
	r := NewResponse()
	r.Status = 599
	assert.Equal(t, "599 ", r.StatusLine())
}

func TestFinalizeAppendsCookies(t *testing.T) {
	r := NewResponse()
	r.Headers.Set("X-A", "1")
	require.NoError(t, r.SetCookie("token", "abc"))

	_, headers, _ := finalize(t, r)

	assert.Equal(t, []HeaderPair{
		{Name: "X-A", Value: "1"},
		{Name: "Set-Cookie", Value: "token=abc; HttpOnly; SameSite=Strict"},
	}, headers)
}

// ---------------------------------------------------------------------------
// File mode
// ---------------------------------------------------------------------------

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestFileStreamsContents(t *testing.T) {
	path := writeTemp(t, "hello", []byte("hello world"))
	r := NewResponse()
	r.SetBody("ignored")
	require.NoError(t, r.File(path))

	_, _, body := finalize(t, r)

	assert.Equal(t, []byte("hello world"), body)
}

func TestFileStreamsInChunks(t *testing.T) {
	content := bytes.Repeat([]byte("x"), ChunkSize+10)
	path := writeTemp(t, "big.bin", content)
	r := NewResponse()
	require.NoError(t, r.File(path))

	var sizes []int
	for chunk, err := range r.Finalize(func(string, []HeaderPair) {}) {
		require.NoError(t, err)
		sizes = append(sizes, len(chunk))
	}

	assert.Equal(t, []int{ChunkSize, 10}, sizes)
}

func TestFileStreamIsSinglePass(t *testing.T) {
	path := writeTemp(t, "once.txt", []byte("once"))
	r := NewResponse()
	require.NoError(t, r.File(path))
	body := r.Finalize(func(string, []HeaderPair) {})

	for _, err := range body {
		require.NoError(t, err)
	}
	for _, err := range body {
		assert.ErrorIs(t, err, ErrStreamConsumed)
	}
}

func TestFileWithContentType(t *testing.T) {
	r := NewResponse()
	require.NoError(t, r.File(writeTemp(t, "blob", nil), WithContentType("image/png")))
	assert.Equal(t, "image/png", r.Headers.Get("Content-Type"))
}

func TestFileGuessesContentType(t *testing.T) {
	r := NewResponse()
	require.NoError(t, r.File(writeTemp(t, "pic.png", nil)))
	assert.Equal(t, "image/png", r.Headers.Get("Content-Type"))
}

func TestFileWithoutExtensionIsOctetStream(t *testing.T) {
	r := NewResponse()
	require.NoError(t, r.File(writeTemp(t, "blob", nil)))
	assert.Equal(t, "application/octet-stream", r.Headers.Get("Content-Type"))
}

func TestFileDisposition(t *testing.T) {
	path := writeTemp(t, "report.png", []byte("foobar"))

	cases := []struct {
		name string
		opts []FileOption
		want string
	}{
		{"inline", nil, `inline; filename="report.png"`},
		{"download", []FileOption{Download()}, `attachment; filename="report.png"`},
		{"named", []FileOption{WithFilename("image.png")}, `inline; filename="image.png"`},
		{"download named", []FileOption{Download(), WithFilename("image.png")}, `attachment; filename="image.png"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResponse()
			require.NoError(t, r.File(path, tc.opts...))
			assert.Equal(t, tc.want, r.Headers.Get("Content-Disposition"))
			assert.Equal(t, "6", r.Headers.Get("Content-Length"))
		})
	}
}

func TestFileMissing(t *testing.T) {
	r := NewResponse()
	err := r.File(filepath.Join(t.TempDir(), "foobar.file"))

	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, r.FilePath())
	assert.Equal(t, 0, r.Headers.Len())
}

func TestSendWritesFile(t *testing.T) {
	path := writeTemp(t, "page.html", []byte("<p>hi</p>"))
	r := NewResponse()
	r.Status = http.StatusOK
	require.NoError(t, r.File(path))
	require.NoError(t, r.SetCookie("seen", "1"))

	rec := httptest.NewRecorder()
	require.NoError(t, r.Send(rec))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>hi</p>", rec.Body.String())
	assert.Equal(t, "9", rec.Header().Get("Content-Length"))
	assert.Equal(t, []string{"seen=1; HttpOnly; SameSite=Strict"}, rec.Header().Values("Set-Cookie"))
}

func TestSendRejectsInvalidStatus(t *testing.T) {
	for _, status := range []int{0, 99, 1000} {
		r := NewResponse()
		r.Status = status
		r.SetBody("never sent")

		rec := httptest.NewRecorder()
		err := r.Send(rec)

		require.ErrorIs(t, err, ErrInvalidStatus, "status %d", status)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "never sent")
	}
}
