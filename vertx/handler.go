package vertx

import (
	"net/http"
)

// ServeHTTP makes a node usable as the outermost transport handler: it builds
// a Request, submits it from this node with no prior response and sends the
// result. Errors that escape every Recoverer end the request with a 500.
func (n *Node) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := NewRequest(r)

	resp, err := n.Submit(req, nil)
	if err != nil {
		n.logger.Error("unhandled error in dispatch tree", "node", n.Name(), "request", req.String(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := resp.Send(w); err != nil {
		n.logger.Warn("response send failed", "node", n.Name(), "request", req.String(), "error", err)
	}
}
