package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"go-vertx/vertx"
)

// Server is the deployment boundary around a dispatch tree. It owns the
// request timeout, error-to-status mapping, metrics and access logging,
// none of which the tree itself knows about.
//
// The current tree sits behind an atomic pointer: a reload builds a whole new
// tree and swaps it in, so a tree is never linked while it serves.
type Server struct {
	root    atomic.Pointer[vertx.Node]
	timeout time.Duration
	logger  *slog.Logger
	metrics *Metrics

	reloads    atomic.Uint64
	lastReload atomic.Int64
}

type Option func(*Server)

// WithTimeout bounds a full Submit call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func NewServer(root *vertx.Node, opts ...Option) (*Server, error) {
	if root == nil {
		return nil, errors.New("server: root node is required")
	}

	s := &Server{
		timeout: 10 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.root.Store(root)
	return s, nil
}

func (s *Server) Root() *vertx.Node {
	return s.root.Load()
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Swap replaces the served tree. Requests already traversing the old tree
// finish on it.
func (s *Server) Swap(root *vertx.Node) error {
	if root == nil {
		return errors.New("server: cannot swap in a nil root")
	}
	s.root.Store(root)
	s.reloads.Add(1)
	s.lastReload.Store(time.Now().UnixNano())
	s.metrics.Reloaded()
	return nil
}

// Dispatch submits req to the current root with no prior response, under the
// configured timeout. Panics raised inside the tree are returned as ErrPanic.
//
// On timeout Dispatch returns while the tree keeps running in the background;
// its result is discarded. Requests built by BuildRequest stop yielding body
// bytes once their context is done, so a late Body call fails instead of
// reading from a finished exchange.
func (s *Server) Dispatch(ctx context.Context, req *vertx.Request) (*vertx.Response, error) {
	root := s.Root()

	type result struct {
		resp *vertx.Response
		err  error
	}

	resCh := make(chan result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				resCh <- result{nil, fmt.Errorf("%w: %v", ErrPanic, p)}
			}
		}()
		resp, err := root.Submit(req, nil)
		resCh <- result{resp, err}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	select {
	case res := <-resCh:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("dispatch %s: %w", req, ctx.Err())
	}
}

// RequestLog is the access log entry written for every request.
type RequestLog struct {
	ID         string
	Method     string
	Path       string
	Status     int
	Duration   time.Duration
	RemoteAddr string
	UserAgent  string
	Error      error
}

func (s *Server) logRequest(entry RequestLog) {
	attrs := []any{
		"id", entry.ID,
		"method", entry.Method,
		"path", entry.Path,
		"status", entry.Status,
		"duration_ms", float64(entry.Duration.Microseconds()) / 1000,
		"remote_addr", entry.RemoteAddr,
	}
	if entry.UserAgent != "" {
		attrs = append(attrs, "user_agent", entry.UserAgent)
	}
	if entry.Error != nil {
		s.logger.Error("request failed", append(attrs, "error", entry.Error)...)
		return
	}
	s.logger.Info("request", attrs...)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, id := BuildRequest(r)
	start := time.Now()
	s.metrics.StartRequest()

	entry := RequestLog{
		ID:         id,
		Method:     r.Method,
		Path:       r.URL.RequestURI(),
		Status:     http.StatusInternalServerError,
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	}
	failed := true

	// runs even if writing the response panics
	defer func() {
		entry.Duration = time.Since(start)
		s.metrics.EndRequest(r.Method, entry.Status, entry.Duration, failed)
		s.logRequest(entry)
	}()

	resp, err := s.Dispatch(r.Context(), req)
	if err != nil {
		entry.Status = mapDispatchErrorToStatus(err)
		entry.Error = err
		writeDispatchError(w, entry.Status)
		return
	}

	if !resp.Headers.Has(RequestIDHeader) {
		resp.Headers.Set(RequestIDHeader, id)
	}
	err = resp.Send(w)
	switch {
	case errors.Is(err, vertx.ErrInvalidStatus):
		entry.Error = err
		return
	case err != nil:
		// headers are already out; all we can do is record it
		entry.Error = fmt.Errorf("send response: %w", err)
	}

	entry.Status = resp.Status
	failed = false
}

// HealthSummary describes the tree currently being served.
type HealthSummary struct {
	Status     string    `json:"status"`
	Nodes      int       `json:"nodes"`
	Reloads    uint64    `json:"reloads"`
	LastReload time.Time `json:"last_reload,omitzero"`
}

func (s *Server) Health() HealthSummary {
	summary := HealthSummary{
		Status:  "ok",
		Nodes:   countNodes(s.Root()),
		Reloads: s.reloads.Load(),
	}
	if ns := s.lastReload.Load(); ns > 0 {
		summary.LastReload = time.Unix(0, ns)
	}
	return summary
}

// countNodes counts distinct nodes reachable from root.
func countNodes(root *vertx.Node) int {
	seen := map[*vertx.Node]struct{}{}
	stack := []*vertx.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		stack = append(stack, n.Nodes()...)
	}
	return len(seen)
}
