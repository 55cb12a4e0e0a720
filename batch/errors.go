// CLAUDE:SUMMARY Sentinel error kinds (transport, status, parse, io) shared by all flows.
package batch

import (
	"context"
	"errors"
)

// ErrTransport marks connection, DNS and timeout failures.
var ErrTransport = errors.New("transport failure")

// ErrStatus marks a non-2xx HTTP response.
var ErrStatus = errors.New("unexpected http status")

// ErrParse marks malformed documents or markup.
var ErrParse = errors.New("parse failure")

// ErrIO marks output directory or artifact write failures.
var ErrIO = errors.New("io failure")

// Kind returns a short label for err, used in logs and the run ledger.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
