package zkp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const identifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomExponent draws a uniform value in [0, q). It is used for the
// prover's ephemeral k and the verifier's challenge c.
func (e *Engine) RandomExponent() (*big.Int, error) {
	v, err := rand.Int(e.rand, e.params.Q)
	if err != nil {
		return nil, fmt.Errorf("random exponent: %w", err)
	}
	return v, nil
}

// RandomIdentifier returns n characters drawn uniformly from [A-Za-z0-9].
// Rejection sampling keeps every character unbiased.
func (e *Engine) RandomIdentifier(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random identifier: length must be positive, got %d", n)
	}

	const limit = 256 - 256%len(identifierAlphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(e.rand, buf); err != nil {
			return "", fmt.Errorf("random identifier: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, identifierAlphabet[int(b)%len(identifierAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
