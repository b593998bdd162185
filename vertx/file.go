package vertx

import (
	"fmt"
	"io"
	"iter"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
)

// ChunkSize is the read size used when streaming a file body.
const ChunkSize = 1 << 20

type fileOptions struct {
	contentType string
	download    bool
	name        string
}

type FileOption func(*fileOptions)

// WithContentType overrides the extension-based content type.
func WithContentType(ct string) FileOption {
	return func(o *fileOptions) { o.contentType = ct }
}

// Download marks the file as an attachment instead of inline content.
func Download() FileOption {
	return func(o *fileOptions) { o.download = true }
}

// WithFilename sets the filename advertised in Content-Disposition.
func WithFilename(name string) FileOption {
	return func(o *fileOptions) { o.name = name }
}

// File switches the response to streaming path instead of the in-memory body
// and sets Content-Type, Content-Disposition and Content-Length.
func (r *Response) File(path string, opts ...FileOption) error {
	var o fileOptions
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("response file: %w", err)
	}

	ct := o.contentType
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(path))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	disposition := "inline"
	if o.download {
		disposition = "attachment"
	}
	name := o.name
	if name == "" {
		name = filepath.Base(path)
	}

	r.file = path
	r.Headers.Set("Content-Type", ct)
	r.Headers.Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, name))
	r.Headers.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	return nil
}

// StartFunc receives the status line and the ordered header pairs before any
// body chunk is produced.
type StartFunc func(status string, headers []HeaderPair)

// StatusLine renders the status code with its reason phrase, e.g. "404 Not Found".
func (r *Response) StatusLine() string {
	return strconv.Itoa(r.Status) + " " + http.StatusText(r.Status)
}

// HeaderPairs returns the headers followed by one Set-Cookie pair per cookie directive.
func (r *Response) HeaderPairs() []HeaderPair {
	pairs := r.Headers.Pairs()
	for _, c := range r.Cookies {
		pairs = append(pairs, HeaderPair{Name: "Set-Cookie", Value: c})
	}
	return pairs
}

// Finalize hands status and headers to start and returns the body as a
// sequence of chunks: the in-memory body as one chunk, or the file read in
// ChunkSize pieces. A file sequence is single-pass.
func (r *Response) Finalize(start StartFunc) iter.Seq2[[]byte, error] {
	start(r.StatusLine(), r.HeaderPairs())
	if r.file != "" {
		return fileChunks(r.file)
	}
	body := r.body
	return func(yield func([]byte, error) bool) {
		yield(body, nil)
	}
}

func fileChunks(path string) iter.Seq2[[]byte, error] {
	var used atomic.Bool
	return func(yield func([]byte, error) bool) {
		if used.Swap(true) {
			yield(nil, ErrStreamConsumed)
			return
		}

		f, err := os.Open(path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		buf := make([]byte, ChunkSize)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if !yield(chunk, nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// Send finalizes the response onto an http.ResponseWriter. A status outside
// 100-999 is answered with a plain 500 and reported as ErrInvalidStatus.
func (r *Response) Send(w http.ResponseWriter) error {
	if r.Status < 100 || r.Status > 999 {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("%w: %d", ErrInvalidStatus, r.Status)
	}

	body := r.Finalize(func(_ string, headers []HeaderPair) {
		h := w.Header()
		for _, p := range headers {
			h.Add(p.Name, p.Value)
		}
		w.WriteHeader(r.Status)
	})

	for chunk, err := range body {
		if err != nil {
			return err
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}
