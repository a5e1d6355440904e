package zkp

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Engine evaluates the prover and verifier sides of the protocol for one
// set of group parameters. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	params *GroupParameters
	rand   io.Reader
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom replaces the randomness source. Production code must keep the
// default crypto/rand reader; predictable randomness breaks soundness.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) {
		e.rand = r
	}
}

// NewEngine returns an Engine over params.
func NewEngine(params *GroupParameters, opts ...Option) *Engine {
	e := &Engine{params: params, rand: rand.Reader}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Params returns the engine's group parameters.
func (e *Engine) Params() *GroupParameters {
	return e.params
}

// Commit returns (alpha^exp mod p, beta^exp mod p). It produces the public
// pair (y1, y2) for exp = x at registration and the per-attempt commitment
// (r1, r2) for exp = k at login.
func (e *Engine) Commit(exp *big.Int) (c1, c2 *big.Int) {
	p := e.params.P
	c1 = new(big.Int).Exp(e.params.Alpha, exp, p)
	c2 = new(big.Int).Exp(e.params.Beta, exp, p)
	return c1, c2
}

// Respond computes s = (k - c*x) mod q, always in [0, q).
func (e *Engine) Respond(k, c, x *big.Int) *big.Int {
	s := new(big.Int).Mul(c, x)
	s.Sub(k, s)
	return s.Mod(s, e.params.Q)
}

// Verify reports whether alpha^s * y1^c == r1 and beta^s * y2^c == r2
// modulo p. Nil arguments never verify.
func (e *Engine) Verify(r1, r2, y1, y2, c, s *big.Int) bool {
	for _, v := range []*big.Int{r1, r2, y1, y2, c, s} {
		if v == nil {
			return false
		}
	}

	return e.check(e.params.Alpha, y1, r1, c, s) && e.check(e.params.Beta, y2, r2, c, s)
}

func (e *Engine) check(base, y, r, c, s *big.Int) bool {
	p := e.params.P

	lhs := new(big.Int).Exp(base, s, p)
	lhs.Mul(lhs, new(big.Int).Exp(y, c, p))
	lhs.Mod(lhs, p)

	return lhs.Cmp(new(big.Int).Mod(r, p)) == 0
}
