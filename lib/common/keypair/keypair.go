//
// Encapsulate Stellar's keypair package
//
// Every roster identity is a stellar public address. Provides the wrappers
// the engines and the API use to validate and sign with them.
//
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Aliases to stellar types
type Full = stellar.Full
type KP = stellar.KP

// Aliases to stellar functions
var Parse = stellar.Parse
var RandomCanFail = stellar.Random

// IsAddress checks `address` is a public address, not a seed.
func IsAddress(address string) bool {
	kp, err := stellar.Parse(address)
	if err != nil {
		return false
	}

	_, isFull := kp.(*stellar.Full)

	return !isFull && kp.Address() == address
}

// MakeSignature signs `body` prefixed by the network id.
func MakeSignature(kp KP, networkID []byte, body []byte) ([]byte, error) {
	return kp.Sign(append(append([]byte{}, networkID...), body...))
}

// VerifySignature is the counterpart of `MakeSignature`.
func VerifySignature(address string, networkID []byte, body, signature []byte) error {
	kp, err := stellar.Parse(address)
	if err != nil {
		return err
	}

	return kp.Verify(append(append([]byte{}, networkID...), body...), signature)
}
