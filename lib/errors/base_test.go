package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorsClone(t *testing.T) {
	require.Equal(t, AlreadyExists, AlreadyExists)

	e := AlreadyExists
	e0 := AlreadyExists.Clone()
	require.NotEqual(t, fmt.Sprintf("%p", e), fmt.Sprintf("%p", e0))

	{
		e0.SetData("showme", "killme")
		require.NotEqual(t, e.Data, e0.Data)
		require.Empty(t, AlreadyExists.Data)
	}
}

func TestErrorsIs(t *testing.T) {
	e := CapacityExceeded.Clone().SetData("collection", "members")
	require.True(t, Is(e, CapacityExceeded))
	require.False(t, Is(e, NotFound))
	require.False(t, Is(fmt.Errorf("showme"), CapacityExceeded))
	require.False(t, Is(nil, CapacityExceeded))
}

func TestErrorsKind(t *testing.T) {
	require.Equal(t, KindValidation, InvalidTitle.Kind())
	require.Equal(t, KindPrecondition, AlreadyVoted.Kind())
	require.Equal(t, KindResource, InsufficientFunds.Kind())
	require.Equal(t, KindInvariant, CapacityExceeded.Kind())
	require.Equal(t, KindInternal, StorageCoreError.Kind())
}

func TestErrorsSerialize(t *testing.T) {
	b, err := NotFound.Serialize()
	require.NoError(t, err)
	require.Equal(t, `{"code":200,"message":"roster does not exist"}`, string(b))
}
