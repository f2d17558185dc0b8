package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeHashIsKeccak256(t *testing.T) {
	require.Equal(
		t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(MakeHash([]byte{})),
	)
	require.Equal(
		t,
		"4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		hex.EncodeToString(MakeHash([]byte("abc"))),
	)
}
