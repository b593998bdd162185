package nodes

import (
	"encoding/json"

	"go-vertx/vertx"
)

// WriteJSON replaces the body of resp with v encoded as JSON.
func WriteJSON(resp *vertx.Response, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	resp.Status = status
	resp.Headers.Set("Content-Type", "application/json")
	resp.SetBody(b)
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

// bounceError bounces resp with {"error": msg}.
func bounceError(resp *vertx.Response, status int, msg string) (*vertx.Response, error) {
	if err := WriteJSON(resp, status, errorBody{Error: msg}); err != nil {
		return nil, err
	}
	return nil, vertx.Bounce(resp)
}
