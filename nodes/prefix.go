package nodes

import (
	"net/http"
	"strings"

	"go-vertx/vertx"
)

// Prefix guards a subtree: requests outside prefix bounce with a JSON 404,
// so the children below only ever see matching paths.
func Prefix(prefix string) vertx.Handler {
	return vertx.HandlerFunc(func(req *vertx.Request, resp *vertx.Response) (*vertx.Response, error) {
		if !strings.HasPrefix(req.Path(), prefix) {
			return bounceError(resp, http.StatusNotFound, "Not found")
		}
		return resp, nil
	})
}
