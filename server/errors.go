package server

import (
	"context"
	"errors"
	"net/http"
)

// ErrPanic wraps a panic recovered while a request traversed the tree.
var ErrPanic = errors.New("panic in dispatch tree")

// StatusClientClosedRequest is used for requests whose client went away.
const StatusClientClosedRequest = 499

// mapDispatchErrorToStatus converts errors that escaped the tree into HTTP status codes.
func mapDispatchErrorToStatus(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		// the tree did not finish within the request timeout
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	default:
		// bad handles, panics and anything else no node recovered from
		return http.StatusInternalServerError
	}
}

func writeDispatchError(w http.ResponseWriter, status int) {
	text := http.StatusText(status)
	if status == StatusClientClosedRequest {
		text = "Client Closed Request"
	}
	http.Error(w, text, status)
}
