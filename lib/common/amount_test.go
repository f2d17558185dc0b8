package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/errors"
)

func TestAmountAddSub(t *testing.T) {
	require.Equal(t, Amount(15), Amount(10).MustAdd(5))
	require.Equal(t, Amount(5), Amount(10).MustSub(5))

	_, err := MaximumBalance.Add(1)
	require.Equal(t, errors.MaximumBalanceReached, err)

	_, err = Amount(1).Sub(2)
	require.Equal(t, errors.BalanceUnderZero, err)

	require.Panics(t, func() { Amount(1).MustSub(2) })
}

func TestAmountMulPerbill(t *testing.T) {
	a := Amount(1001)
	share := a.MulPerbill(PerbillFromPercent(30))
	require.Equal(t, Amount(300), share)
	require.Equal(t, a, share.MustAdd(a.MustSub(share)))

	require.Equal(t, Amount(0), a.MulPerbill(PerbillFromPercent(0)))
	require.Equal(t, a, a.MulPerbill(PerbillFromPercent(100)))
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(Amount(100))
	require.NoError(t, err)
	require.Equal(t, `"100"`, string(b))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"200"`), &a))
	require.Equal(t, Amount(200), a)

	require.NoError(t, json.Unmarshal([]byte(`300`), &a))
	require.Equal(t, Amount(300), a)

	require.Error(t, json.Unmarshal([]byte(`"-1"`), &a))
	require.Error(t, json.Unmarshal([]byte(`"showme"`), &a))
}

func TestAmountFromString(t *testing.T) {
	a, err := AmountFromString("123")
	require.NoError(t, err)
	require.Equal(t, Amount(123), a)

	_, err = AmountFromString("10000000000000000001")
	require.Error(t, err)

	_, err = AmountFromString("")
	require.Error(t, err)
}
