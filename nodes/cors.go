package nodes

import (
	"net/http"

	"go-vertx/vertx"
)

// CORS adds the CORS headers to every response and answers preflight
// requests directly.
func CORS(origin string) vertx.Handler {
	if origin == "" {
		origin = "*"
	}
	return vertx.HandlerFunc(func(req *vertx.Request, resp *vertx.Response) (*vertx.Response, error) {
		resp.Headers.Set("Access-Control-Allow-Origin", origin)
		resp.Headers.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		resp.Headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if req.Method() == http.MethodOptions {
			resp.Status = http.StatusOK
			return nil, vertx.Bounce(resp)
		}
		return resp, nil
	})
}
