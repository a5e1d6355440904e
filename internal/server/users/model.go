// Package users persists one UserRecord per username in a kv.Store.
package users

import "math/big"

// UserRecord holds the registered commitments of a user together with the
// values of their most recent authentication attempt.
type UserRecord struct {
	Username string

	// Y1 = alpha^x and Y2 = beta^x, set at registration.
	Y1 *big.Int
	Y2 *big.Int

	// R1, R2 and C belong to the latest challenge; S is the answer that
	// last verified.
	R1 *big.Int
	R2 *big.Int
	C  *big.Int
	S  *big.Int

	AuthID    string
	SessionID string
}

// ResetAttempt clears every per-attempt field.
func (r *UserRecord) ResetAttempt() {
	r.R1, r.R2, r.C, r.S = nil, nil, nil, nil
	r.AuthID, r.SessionID = "", ""
}
