// Package zkp implements the Chaum-Pedersen proof of equality of discrete
// logarithms used for password-less authentication.
//
// A prover holding a secret exponent x publishes y1 = alpha^x and
// y2 = beta^x. To authenticate it commits to a fresh exponent k
// (r1 = alpha^k, r2 = beta^k), receives a random challenge c and answers
// with s = k - c*x mod q. The verifier accepts when
//
//	alpha^s * y1^c == r1 (mod p)  and  beta^s * y2^c == r2 (mod p).
//
// All arithmetic happens in the order-q subgroup of Z_p^*. The parameters
// are public, fixed and must be identical on both ends of the protocol.
package zkp

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/crypto/sha3"
)

// RFC 5114 section 2.1: 1024-bit MODP group with a 160-bit prime order subgroup.
const (
	rfc5114P     = "B10B8F96A080E01DDE92DE5EAE5D54EC52C99FBCFB06A3C69A6A9DCA52D23B616073E28675A23D189838EF1E2EE652C013ECB4AEA906112324975C3CD49B83BFACCBDD7D90C4BD7098488E9C219A73724EFFD6FAE5644738FAA31A4FF55BCCC0A151AF5F0DC8B4BD45BF37DF365C1A65E68CFDA76D4DA708DF1FB2BC2E4A4371"
	rfc5114Q     = "F518AA8781A8DF278ABA4E7D64B7CB9D49462353"
	rfc5114Alpha = "A4D1CBD5C3FD34126765A442EFB99905F8104DD258AC507FD6406CFF14266D31266FEA1E5C41564B777E690F5504F213160217B4B01B886A5E91547F9E2749F4D7FBD7D3B9A92EE1909D0D2263F80A76A6A24C087A091F531DBF0A0169B6A28AD662A4D18E73AFA32D779D5918D08BC8858F4DCEF97C2A24855E6EEB22B3B2E5"

	// betaSeed is hashed into the subgroup to obtain the second generator.
	betaSeed = "zkpauth/chaum-pedersen/beta"
)

var one = big.NewInt(1)

// GroupParameters are the public constants of the proof system: a prime
// modulus P, the prime order Q of the working subgroup (Q divides P-1) and
// two generators Alpha and Beta of that subgroup.
//
// Values are treated as immutable once constructed.
type GroupParameters struct {
	Alpha *big.Int
	Beta  *big.Int
	P     *big.Int
	Q     *big.Int
}

var (
	defaultOnce   sync.Once
	defaultParams *GroupParameters
)

// Default returns the process-wide parameters shared by client and server.
//
// Alpha is the RFC 5114 generator. Beta is derived by hashing a fixed seed
// into the subgroup, so nobody knows log_alpha(beta).
func Default() *GroupParameters {
	defaultOnce.Do(func() {
		p := mustHex(rfc5114P)
		q := mustHex(rfc5114Q)
		defaultParams = &GroupParameters{
			Alpha: mustHex(rfc5114Alpha),
			Beta:  deriveGenerator(p, q, betaSeed),
			P:     p,
			Q:     q,
		}
	})
	return defaultParams
}

// Toy returns a tiny group (p=23, q=11, alpha=4, beta=9). It offers no
// security and exists for tests and worked examples.
func Toy() *GroupParameters {
	return &GroupParameters{
		Alpha: big.NewInt(4),
		Beta:  big.NewInt(9),
		P:     big.NewInt(23),
		Q:     big.NewInt(11),
	}
}

// Constants returns copies of (alpha, beta, p, q).
func (g *GroupParameters) Constants() (alpha, beta, p, q *big.Int) {
	return new(big.Int).Set(g.Alpha), new(big.Int).Set(g.Beta),
		new(big.Int).Set(g.P), new(big.Int).Set(g.Q)
}

// Validate checks the structural invariants: q divides p-1 and both
// generators are distinct non-trivial elements of multiplicative order q.
// Primality of p and q is not re-checked.
func (g *GroupParameters) Validate() error {
	if g.P == nil || g.Q == nil || g.Alpha == nil || g.Beta == nil {
		return errors.New("group parameters: missing value")
	}
	if g.P.Cmp(big.NewInt(3)) < 0 || g.Q.Cmp(big.NewInt(2)) < 0 {
		return errors.New("group parameters: modulus too small")
	}

	pm1 := new(big.Int).Sub(g.P, one)
	if new(big.Int).Mod(pm1, g.Q).Sign() != 0 {
		return errors.New("group parameters: q does not divide p-1")
	}

	for name, gen := range map[string]*big.Int{"alpha": g.Alpha, "beta": g.Beta} {
		if gen.Cmp(one) == 0 || !g.inSubgroup(gen) {
			return fmt.Errorf("group parameters: %s is not a generator of the order-q subgroup", name)
		}
	}

	if g.Alpha.Cmp(g.Beta) == 0 {
		return errors.New("group parameters: alpha and beta must differ")
	}
	return nil
}

// inSubgroup reports whether 0 < v < p and v^q = 1 (mod p). With q prime
// every such v other than 1 has order exactly q.
func (g *GroupParameters) inSubgroup(v *big.Int) bool {
	if v.Sign() <= 0 || v.Cmp(g.P) >= 0 {
		return false
	}
	return new(big.Int).Exp(v, g.Q, g.P).Cmp(one) == 0
}

// deriveGenerator maps seed||counter into Z_p with SHAKE256 and raises it to
// (p-1)/q, taking the first counter that yields an element other than 1.
func deriveGenerator(p, q *big.Int, seed string) *big.Int {
	cofactor := new(big.Int).Sub(p, one)
	cofactor.Div(cofactor, q)

	buf := make([]byte, (p.BitLen()+7)/8+16)
	for counter := uint32(1); ; counter++ {
		input := append([]byte(seed),
			byte(counter>>24), byte(counter>>16), byte(counter>>8), byte(counter))
		sha3.ShakeSum256(buf, input)

		h := new(big.Int).SetBytes(buf)
		h.Mod(h, p)
		gen := h.Exp(h, cofactor, p)
		if gen.Cmp(one) > 0 {
			return gen
		}
	}
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("zkp: bad hex constant")
	}
	return v
}
