package vertx

import "errors"

var (
	// ErrNotNode is returned by Link when the argument is not a node instance.
	ErrNotNode = errors.New("a node can only link to node instances")

	// ErrBadLink matches every *LinkError.
	ErrBadLink = errors.New("bad link")

	// ErrBadHandle is returned when a handler neither returns nor bounces a response.
	ErrBadHandle = errors.New("node handle did not return or raise a response")

	ErrInvalidCookie  = errors.New("invalid cookie name")
	ErrStreamConsumed = errors.New("response stream already consumed")

	// ErrInvalidStatus is returned by Send for a status net/http cannot write.
	ErrInvalidStatus = errors.New("invalid response status")
)

// LinkError describes a rejected Link call. The link is never committed.
type LinkError struct {
	Parent string
	Child  string
	Msg    string
}

func (e *LinkError) Error() string {
	return e.Msg
}

func (e *LinkError) Is(target error) bool {
	return target == ErrBadLink
}
