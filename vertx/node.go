package vertx

import (
	"log/slog"
)

// Handler is the handling step of a node.
//
// Returning (resp, nil) continues into the node's children with resp as the
// baseline. Returning a *Response as the error (see Bounce) stops the
// subtree there. Any other error is handed to the node's Recoverer.
type Handler interface {
	Handle(req *Request, resp *Response) (*Response, error)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(req *Request, resp *Response) (*Response, error)

func (f HandlerFunc) Handle(req *Request, resp *Response) (*Response, error) {
	return f(req, resp)
}

// Identity is the default handler: it returns the response unchanged.
var Identity Handler = HandlerFunc(func(_ *Request, resp *Response) (*Response, error) {
	return resp, nil
})

// Recoverer is the exception hook of a node. It sees errors raised by the
// node's own handler and by its children's submissions, with the response
// current at the time of failure. It follows the same return contract as
// Handler; returning the error unchanged propagates it to the parent.
type Recoverer interface {
	Recover(req *Request, resp *Response, err error) (*Response, error)
}

// RecovererFunc adapts an ordinary function to Recoverer.
type RecovererFunc func(req *Request, resp *Response, err error) (*Response, error)

func (f RecovererFunc) Recover(req *Request, resp *Response, err error) (*Response, error) {
	return f(req, resp, err)
}

// Reraise is the default Recoverer.
var Reraise Recoverer = RecovererFunc(func(_ *Request, _ *Response, err error) (*Response, error) {
	return nil, err
})

// Node is a vertex of the dispatch tree. A tree is built with Link before it
// serves requests and is read-only afterwards, so it may be submitted to
// from many goroutines at once.
type Node struct {
	name      string
	handler   Handler
	recoverer Recoverer
	logger    *slog.Logger
	nodes     []*Node
}

// Option configures a Node at construction.
type Option func(*Node)

// WithName sets the name used in logs and by Name.
func WithName(name string) Option {
	return func(n *Node) { n.name = name }
}

// WithRecoverer replaces the default Reraise hook.
func WithRecoverer(r Recoverer) Option {
	return func(n *Node) { n.recoverer = r }
}

// WithLogger sets the logger for traversal debug output; slog.Default otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Node) { n.logger = logger }
}

// New creates a node with no children. A nil handler means Identity.
func New(h Handler, opts ...Option) *Node {
	n := &Node{
		handler:   h,
		recoverer: Reraise,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.handler == nil {
		n.handler = Identity
	}
	if n.recoverer == nil {
		n.recoverer = Reraise
	}
	return n
}

// NewFunc is shorthand for New(HandlerFunc(f), opts...).
func NewFunc(f func(req *Request, resp *Response) (*Response, error), opts ...Option) *Node {
	return New(HandlerFunc(f), opts...)
}

func (n *Node) Name() string {
	if n.name == "" {
		return "node"
	}
	return n.name
}

// Nodes returns a copy of the children in link order.
func (n *Node) Nodes() []*Node {
	out := make([]*Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Link appends child to n's children. It fails without modifying the tree
// when child is nil, is n itself, or already reaches n.
func (n *Node) Link(child *Node) error {
	if child == nil {
		return ErrNotNode
	}
	if child == n {
		return &LinkError{Parent: n.Name(), Child: child.Name(), Msg: "a node cannot link to itself"}
	}
	if child.reaches(n) {
		return &LinkError{Parent: n.Name(), Child: child.Name(), Msg: "a node link must not form a path to itself"}
	}
	n.nodes = append(n.nodes, child)
	return nil
}

// MustLink is like Link but panics on error. Intended for static tree setup.
func (n *Node) MustLink(children ...*Node) *Node {
	for _, c := range children {
		if err := n.Link(c); err != nil {
			panic(err)
		}
	}
	return n
}

// reaches reports whether target is n or sits anywhere below n.
func (n *Node) reaches(target *Node) bool {
	seen := make(map[*Node]struct{})
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		stack = append(stack, cur.nodes...)
	}
	return false
}

// Submit runs the node's handler and, unless it bounced, each child in link
// order. resp may be nil, in which case a fresh default response is used.
func (n *Node) Submit(req *Request, resp *Response) (*Response, error) {
	if resp == nil {
		resp = NewResponse()
	}

	out, err := n.handler.Handle(req, resp)
	if out == nil && err == nil {
		return nil, ErrBadHandle
	}
	next, bounced, err := n.step(out, err)
	if err != nil {
		next, bounced, err = n.recover(req, resp, err)
		if err != nil {
			return nil, err
		}
	}
	if bounced {
		n.logger.Debug("node bounced", "node", n.Name(), "status", next.Status)
		return next, nil
	}

	current := next
	for _, child := range n.nodes {
		out, err := child.Submit(req, current)
		if err == nil {
			current = out
			continue
		}

		out, stop, err := n.recover(req, current, err)
		if err != nil {
			return nil, err
		}
		current = out
		if stop {
			n.logger.Debug("node bounced from recoverer", "node", n.Name(), "child", child.Name(), "status", current.Status)
			return current, nil
		}
	}
	return current, nil
}

func (n *Node) recover(req *Request, resp *Response, cause error) (*Response, bool, error) {
	n.logger.Debug("node recovering", "node", n.Name(), "error", cause)
	return n.step(n.recoverer.Recover(req, resp, cause))
}

// step classifies the result of a handler or recoverer call.
func (n *Node) step(resp *Response, err error) (*Response, bool, error) {
	if err != nil {
		if r, ok := AsBounce(err); ok {
			return r, true, nil
		}
		return nil, false, err
	}
	if resp == nil {
		return nil, false, ErrBadHandle
	}
	return resp, false, nil
}
