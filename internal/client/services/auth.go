// Package services contains the zkpauth client driver: it derives the
// secret from a password, runs the Chaum-Pedersen exchange against the
// server and tracks where the client is in that exchange.
package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/dmitrijs2005/zkpauth/internal/client/client"
	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

// State is where the driver is in its lifecycle. Registration and login are
// independent paths out of StateConnected.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateRegistered
	StateChallengeSent
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateRegistered:
		return "registered"
	case StateChallengeSent:
		return "challenge_sent"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "disconnected"
	}
}

type Session struct {
	Username    string
	SessionID   string
	AccessToken string
}

type Identity struct {
	Username  string
	SessionID string
}

// RegistrationError reports a failed Register call.
type RegistrationError struct {
	Username string
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration of %q failed: %v", e.Username, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// AuthenticationError reports a failed login attempt. A new attempt starts
// from a fresh commitment.
type AuthenticationError struct {
	Kind common.Kind
	Err  error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (%s): %v", e.Kind, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// SecretDeriver maps credentials to the prover's secret exponent.
type SecretDeriver func(username string, password []byte) *big.Int

type Option func(*AuthService)

func WithSecretDeriver(fn SecretDeriver) Option {
	return func(a *AuthService) { a.derive = fn }
}

// WithEngine replaces the proof engine, e.g. to use another group.
func WithEngine(e *zkp.Engine) Option {
	return func(a *AuthService) { a.engine = e }
}

// AuthService drives registration and login over a client.Client. It is
// safe for concurrent use, though calls are serialized.
type AuthService struct {
	client client.Client
	engine *zkp.Engine
	derive SecretDeriver

	mu      sync.Mutex
	state   State
	session *Session
}

// NewAuthService returns a driver in StateConnected. By default it uses the
// standard group and zkp.DeriveSecret.
func NewAuthService(c client.Client, opts ...Option) *AuthService {
	a := &AuthService{client: c, state: StateConnected}
	for _, opt := range opts {
		opt(a)
	}
	if a.engine == nil {
		a.engine = zkp.NewEngine(zkp.Default())
	}
	if a.derive == nil {
		params := a.engine.Params()
		a.derive = func(username string, password []byte) *big.Int {
			return zkp.DeriveSecret(params, username, password)
		}
	}
	return a
}

func (a *AuthService) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Session returns the current session, or nil before a successful login.
func (a *AuthService) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

// Register derives x from the password and publishes (alpha^x, beta^x).
// Registering an existing username replaces its verifier.
func (a *AuthService) Register(ctx context.Context, username string, password []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDisconnected {
		return &RegistrationError{Username: username, Err: common.ErrorUnavailable}
	}

	x := a.derive(username, password)
	defer x.SetInt64(0)

	y1, y2 := a.engine.Commit(x)
	if err := a.client.Register(ctx, username, zkp.EncodeInt(y1), zkp.EncodeInt(y2)); err != nil {
		return &RegistrationError{Username: username, Err: err}
	}

	a.state = StateRegistered
	return nil
}

// Login proves knowledge of x for username. Each call draws a new k; on
// any failure the driver drops back to StateConnected.
func (a *AuthService) Login(ctx context.Context, username string, password []byte) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDisconnected {
		return nil, &AuthenticationError{Kind: common.KindUnavailable, Err: common.ErrorUnavailable}
	}

	a.session = nil

	x := a.derive(username, password)
	defer x.SetInt64(0)

	k, err := a.engine.RandomExponent()
	if err != nil {
		return nil, a.loginFailed(fmt.Errorf("%w: %w", common.ErrorInternal, err))
	}
	defer k.SetInt64(0)

	r1, r2 := a.engine.Commit(k)

	authID, cBytes, err := a.client.CreateAuthenticationChallenge(ctx, username, zkp.EncodeInt(r1), zkp.EncodeInt(r2))
	if err != nil {
		return nil, a.loginFailed(err)
	}
	a.state = StateChallengeSent

	c, err := a.engine.Params().DecodeExponent(cBytes)
	if err != nil {
		return nil, a.loginFailed(fmt.Errorf("%w: malformed challenge: %v", common.ErrorInternal, err))
	}

	s := a.engine.Respond(k, c, x)

	sessionID, token, err := a.client.VerifyAuthentication(ctx, authID, zkp.EncodeInt(s))
	if err != nil {
		return nil, a.loginFailed(err)
	}

	a.state = StateAuthenticated
	a.session = &Session{Username: username, SessionID: sessionID, AccessToken: token}

	out := *a.session
	return &out, nil
}

func (a *AuthService) loginFailed(err error) error {
	a.state = StateConnected
	return &AuthenticationError{Kind: common.KindOf(err), Err: err}
}

// Whoami asks the server which user the current access token belongs to.
func (a *AuthService) Whoami(ctx context.Context) (*Identity, error) {
	username, sessionID, err := a.client.Whoami(ctx)
	if err != nil {
		return nil, err
	}
	return &Identity{Username: username, SessionID: sessionID}, nil
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases the connection; the driver is unusable afterwards.
func (a *AuthService) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = StateDisconnected
	a.session = nil
	return a.client.Close()
}
