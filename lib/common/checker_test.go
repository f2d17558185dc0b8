package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/errors"
)

type testChecker struct {
	DefaultChecker

	called []int
}

func markCalled(i int, err error) CheckerFunc {
	return func(c Checker, args ...interface{}) error {
		c.(*testChecker).called = append(c.(*testChecker).called, i)
		return err
	}
}

func TestRunChecker(t *testing.T) {
	checker := &testChecker{}
	checker.Funcs = []CheckerFunc{
		markCalled(0, nil),
		markCalled(1, errors.NotFound),
		markCalled(2, nil),
	}

	var deferred []int
	err := RunChecker(checker, func(i int, _ Checker, _ error) { deferred = append(deferred, i) })
	require.Equal(t, errors.NotFound, err)
	require.Equal(t, []int{0, 1}, checker.called)
	require.Equal(t, []int{0, 1}, deferred)
}

func TestRunCheckerStop(t *testing.T) {
	checker := &testChecker{}
	checker.Funcs = []CheckerFunc{
		markCalled(0, nil),
		markCalled(1, CheckerStop{Reason: "nothing to do"}),
		markCalled(2, errors.NotFound),
	}

	err := RunChecker(checker, LogCheckerDeferFunc(NopLogger()))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, checker.called)
}

func checkNothing(Checker, ...interface{}) error {
	return nil
}

func TestCheckerFuncName(t *testing.T) {
	require.Equal(t, "checkNothing", CheckerFuncName(checkNothing))
}

func TestMakeObjectHash(t *testing.T) {
	a := MustMakeObjectHash([]interface{}{"new-roster", []byte("findme")})
	b := MustMakeObjectHash([]interface{}{"new-roster", []byte("findme")})
	c := MustMakeObjectHash([]interface{}{"nomination", []byte("findme")})

	require.Equal(t, 32, len(a))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
