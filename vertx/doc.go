// Package vertx implements a small request-dispatch tree for HTTP servers.
//
// A tree is made of Nodes. Submitting a request to a node runs its Handler
// and then, in link order, submits the request to each child, threading a
// shared *Response through the calls. A handler ends the descent into its
// own subtree by returning the response as an error:
//
//	auth := vertx.NewFunc(func(req *vertx.Request, resp *vertx.Response) (*vertx.Response, error) {
//		if req.Headers().Get("Authorization") == "" {
//			resp.Status = http.StatusUnauthorized
//			return nil, vertx.Bounce(resp)
//		}
//		return resp, nil
//	})
//
// Errors that are not responses are offered to the node's Recoverer and then
// to each ancestor's, on the way back to the root.
package vertx
