package keypair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAddress(t *testing.T) {
	kp := Random()

	require.True(t, IsAddress(kp.Address()))
	require.False(t, IsAddress(kp.Seed()))
	require.False(t, IsAddress("showme"))
	require.False(t, IsAddress(""))
}

func TestSignature(t *testing.T) {
	kp := Random()
	networkID := []byte("test-network")
	body := []byte(`{"title":"findme"}`)

	signature, err := MakeSignature(kp, networkID, body)
	require.NoError(t, err)

	require.NoError(t, VerifySignature(kp.Address(), networkID, body, signature))
	require.Error(t, VerifySignature(kp.Address(), []byte("other-network"), body, signature))
	require.Error(t, VerifySignature(Random().Address(), networkID, body, signature))
}
