// Package envelope defines the uniform response body returned by every
// gateway endpoint. Application outcomes ride in the envelope under a 200
// status; only malformed requests and unknown routes change the status code.
package envelope

import (
	"errors"

	"github.com/starford/ansuz/internal/apperr"
)

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
}

// OK wraps a successful result.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKEmpty reports success with no payload, the shape of write endpoints.
func OKEmpty() Envelope {
	return Envelope{Success: true}
}

// Err wraps a failure with a caller-facing message.
func Err(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// FromError builds a failure envelope from an error, surfacing captured
// tool stderr when the error carries it.
func FromError(err error) Envelope {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return Envelope{Success: false, Error: ae.Msg, Stderr: ae.Stderr}
	}
	return Envelope{Success: false, Error: err.Error()}
}
