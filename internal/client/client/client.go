package client

import "context"

// Client is the raw protocol surface used by the client driver. Group
// elements and exponents travel as big-endian byte strings.
type Client interface {
	Close() error
	Register(ctx context.Context, username string, y1, y2 []byte) error
	CreateAuthenticationChallenge(ctx context.Context, username string, r1, r2 []byte) (authID string, c []byte, err error)
	VerifyAuthentication(ctx context.Context, authID string, s []byte) (sessionID, accessToken string, err error)
	Ping(ctx context.Context) error
	Whoami(ctx context.Context) (username, sessionID string, err error)
}
