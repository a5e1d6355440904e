package zkp

import (
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/zkpauth/internal/common"
)

// EncodeInt returns the minimal big-endian encoding of v. Zero encodes to an
// empty slice.
func EncodeInt(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	return v.Bytes()
}

// DecodeInt interprets b as a big-endian unsigned integer.
func DecodeInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// DecodeElement decodes b and checks that it is an element of the order-q
// subgroup. The identity 1 is a member (x = 0 or k = 0 commit to it).
// Anything else is reported as ErrorInvalidArgument.
func (g *GroupParameters) DecodeElement(b []byte) (*big.Int, error) {
	if len(b) > (g.P.BitLen()+7)/8 {
		return nil, fmt.Errorf("%w: element longer than modulus", common.ErrorInvalidArgument)
	}
	v := DecodeInt(b)
	if !g.inSubgroup(v) {
		return nil, fmt.Errorf("%w: not an element of the order-q subgroup", common.ErrorInvalidArgument)
	}
	return v, nil
}

// DecodeExponent decodes b and checks that it lies in [0, q).
func (g *GroupParameters) DecodeExponent(b []byte) (*big.Int, error) {
	v := DecodeInt(b)
	if v.Cmp(g.Q) >= 0 {
		return nil, fmt.Errorf("%w: exponent out of range", common.ErrorInvalidArgument)
	}
	return v, nil
}
