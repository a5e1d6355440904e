package users

import (
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	pb "github.com/dmitrijs2005/zkpauth/internal/proto"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldUsername protowire.Number = iota + 1
	fieldY1
	fieldY2
	fieldR1
	fieldR2
	fieldC
	fieldS
	fieldSessionID
	fieldAuthID
)

// appendInt writes v even when it is zero, so a stored zero challenge or
// answer is distinguishable from an absent one.
func appendInt(b []byte, num protowire.Number, v *big.Int) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v.Bytes())
}

// MarshalRecord encodes r in protobuf wire format.
func MarshalRecord(r *UserRecord) []byte {
	var b []byte
	b = pb.AppendString(b, fieldUsername, r.Username)
	b = appendInt(b, fieldY1, r.Y1)
	b = appendInt(b, fieldY2, r.Y2)
	b = appendInt(b, fieldR1, r.R1)
	b = appendInt(b, fieldR2, r.R2)
	b = appendInt(b, fieldC, r.C)
	b = appendInt(b, fieldS, r.S)
	b = pb.AppendString(b, fieldSessionID, r.SessionID)
	b = pb.AppendString(b, fieldAuthID, r.AuthID)
	return b
}

// UnmarshalRecord decodes a stored record. Anything that does not decode to
// a record with a username and both commitments is reported as
// common.ErrorStorageCorruption.
func UnmarshalRecord(b []byte) (*UserRecord, error) {
	r := &UserRecord{}
	err := pb.ConsumeFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldUsername:
			r.Username = string(v)
		case fieldY1:
			r.Y1 = new(big.Int).SetBytes(v)
		case fieldY2:
			r.Y2 = new(big.Int).SetBytes(v)
		case fieldR1:
			r.R1 = new(big.Int).SetBytes(v)
		case fieldR2:
			r.R2 = new(big.Int).SetBytes(v)
		case fieldC:
			r.C = new(big.Int).SetBytes(v)
		case fieldS:
			r.S = new(big.Int).SetBytes(v)
		case fieldSessionID:
			r.SessionID = string(v)
		case fieldAuthID:
			r.AuthID = string(v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStorageCorruption, err)
	}
	if r.Username == "" || r.Y1 == nil || r.Y2 == nil {
		return nil, fmt.Errorf("%w: incomplete user record", common.ErrorStorageCorruption)
	}
	return r, nil
}
