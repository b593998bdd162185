package vertx

import (
	"errors"
	"fmt"
	"net/http"
)

// Response is the shared, mutable result of a submission.
//
// *Response also implements error. Returning it as the error value of a
// handler (or of a Recoverer) bounces: traversal of the current node's
// subtree stops and the response becomes the node's result.
type Response struct {
	Status  int
	Headers *Headers
	Cookies []string

	body []byte
	file string
}

func NewResponse() *Response {
	return &Response{
		Status:  http.StatusNotFound,
		Headers: NewHeaders(),
		Cookies: []string{},
		body:    []byte{},
	}
}

// Bounce returns r as an error so a handler can write `return nil, vertx.Bounce(r)`.
func Bounce(r *Response) error {
	return r
}

// AsBounce extracts a bounced response from err, if there is one.
func AsBounce(err error) (*Response, bool) {
	var r *Response
	if errors.As(err, &r) && r != nil {
		return r, true
	}
	return nil, false
}

func (r *Response) Error() string {
	return "bounced " + r.String()
}

func (r *Response) String() string {
	return fmt.Sprintf("<Response:%dh:%db>", r.Headers.Len(), len(r.body))
}

func (r *Response) Body() []byte {
	return r.body
}

// SetBody replaces the body. Byte slices are kept as is, strings are stored
// as their UTF-8 bytes, nil empties the body and any other value is stored
// through its fmt string representation.
func (r *Response) SetBody(v any) {
	switch b := v.(type) {
	case nil:
		r.body = []byte{}
	case []byte:
		r.body = b
	case string:
		r.body = []byte(b)
	default:
		r.body = []byte(fmt.Sprint(b))
	}
}

// Write appends p to the body.
func (r *Response) Write(p []byte) (int, error) {
	r.body = append(r.body, p...)
	return len(p), nil
}

// FilePath returns the file to stream, or "" when the in-memory body is used.
func (r *Response) FilePath() string {
	return r.file
}
