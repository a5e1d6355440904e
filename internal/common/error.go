// Package common defines shared constants and sentinel errors used across
// client and server layers of zkpauth. Callers should use errors.Is to
// match these values, or KindOf to collapse an error chain into the closed
// set of failure kinds carried over the wire.
package common

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors: unknown username, unknown or expired auth_id.
	ErrorNotFound = errors.New("not found")

	// Verification equations did not hold.
	ErrorPermissionDenied = errors.New("permission denied")

	// Malformed request data, e.g. a byte string that is not a group element.
	ErrorInvalidArgument = errors.New("invalid argument")

	// Service-level errors (store I/O, randomness source failures).
	ErrorInternal = errors.New("internal error")

	// The server could not be reached or did not answer in time.
	ErrorUnavailable = errors.New("server unavailable")

	// A persisted record could not be decoded.
	ErrorStorageCorruption = fmt.Errorf("storage corruption: %w", ErrorInternal)

	// Session token errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)

// Kind is the closed enumeration of failure kinds reported by the
// authentication protocol.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPermissionDenied
	KindInvalidArgument
	KindInternal
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInternal:
		return "internal"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// KindOf reports the protocol failure kind of err. A nil error yields
// KindUnknown; errors outside the taxonomy are reported as KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrorNotFound):
		return KindNotFound
	case errors.Is(err, ErrorPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrorInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrorUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// Sentinel returns the sentinel error matching k.
func (k Kind) Sentinel() error {
	switch k {
	case KindNotFound:
		return ErrorNotFound
	case KindPermissionDenied:
		return ErrorPermissionDenied
	case KindInvalidArgument:
		return ErrorInvalidArgument
	case KindUnavailable:
		return ErrorUnavailable
	default:
		return ErrorInternal
	}
}
