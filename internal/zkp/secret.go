package zkp

import (
	"math/big"

	"golang.org/x/crypto/argon2"
)

const secretSaltPrefix = "zkpauth/"

// DeriveSecret maps a password to the witness x in [0, q). The mapping is
// argon2id keyed by the username, so equal passwords of different users
// yield unrelated witnesses, and is deterministic so that registration and
// every later login agree.
func DeriveSecret(params *GroupParameters, username string, password []byte) *big.Int {
	key := argon2.IDKey(password, []byte(secretSaltPrefix+username), 1, 64*1024, 4, 32)
	x := new(big.Int).SetBytes(key)
	for i := range key {
		key[i] = 0
	}
	return x.Mod(x, params.Q)
}
