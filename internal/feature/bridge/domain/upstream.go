// Package domain holds the types the web tier exchanges with the API.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable reports that the API could not be reached or answered
// with something the web tier does not relay.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Response is a raw API answer.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Envelope decodes the body as the API's {success, message, data, errors}
// envelope. A body that is not JSON yields an empty envelope.
func (r *Response) Envelope() Envelope {
	var env Envelope
	_ = json.Unmarshal(r.Body, &env)
	return env
}

// Envelope mirrors the API response body. Data is kept raw so the web tier
// never depends on the API's payload types.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

// FieldError is one entry of the envelope's errors array.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RelayError carries an upstream failure whose status the browser may see.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}
