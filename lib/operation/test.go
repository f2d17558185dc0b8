package operation

import (
	"boscoin.io/roster/lib/common/keypair"
)

// MakeTestSignedOperation builds and signs an operation of `kp` over
// `networkID`; it panics on error.
func MakeTestSignedOperation(kp keypair.KP, networkID []byte, opb Body) Operation {
	op, err := NewOperation(kp.Address(), opb)
	if err != nil {
		panic(err)
	}
	if err = op.Sign(kp, networkID); err != nil {
		panic(err)
	}

	return op
}
