package nodes

import (
	"log/slog"
	"net/http"

	"go-vertx/vertx"
)

// JSONErrors is a Recoverer that logs the error and bounces a fresh 500
// response with a JSON body, discarding whatever the failing subtree built.
func JSONErrors(logger *slog.Logger) vertx.Recoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return vertx.RecovererFunc(func(req *vertx.Request, _ *vertx.Response, err error) (*vertx.Response, error) {
		logger.Error("recovered error in dispatch tree", "request", req.String(), "error", err)
		return bounceError(vertx.NewResponse(), http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	})
}
