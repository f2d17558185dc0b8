package common

import (
	"reflect"
	"runtime"
	"strings"

	logging "github.com/inconshreveable/log15"
)

// Checker carries the state shared by a chain of `CheckerFunc`; each func
// reads what the previous ones stored on it.
type Checker interface {
	GetFuncs() []CheckerFunc
}

type CheckerFunc func(Checker, ...interface{}) error

// CheckerDeferFunc is called after every step with its index and result.
type CheckerDeferFunc func(int, Checker, error)

var DefaultDeferFunc CheckerDeferFunc = func(int, Checker, error) {}

// CheckerStop ends a chain early without failing it.
type CheckerStop struct {
	Reason string
}

func (c CheckerStop) Error() string {
	return "checker stopped: " + c.Reason
}

type DefaultChecker struct {
	Funcs []CheckerFunc
}

func (c *DefaultChecker) GetFuncs() []CheckerFunc {
	return c.Funcs
}

// RunChecker runs the funcs of `checker` in order and returns the first
// error; `CheckerStop` is not an error.
func RunChecker(checker Checker, deferFunc CheckerDeferFunc, args ...interface{}) error {
	if deferFunc == nil {
		deferFunc = DefaultDeferFunc
	}

	for i, f := range checker.GetFuncs() {
		err := f(checker, args...)
		deferFunc(i, checker, err)

		if _, stopped := err.(CheckerStop); stopped {
			return nil
		} else if err != nil {
			return err
		}
	}

	return nil
}

// CheckerFuncName is the bare function name of `f`, like
// "OperationWellFormed".
func CheckerFuncName(f CheckerFunc) string {
	fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer())
	if fn == nil {
		return "<unknown>"
	}

	name := fn.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// LogCheckerDeferFunc logs the step a chain failed or stopped at.
func LogCheckerDeferFunc(logger logging.Logger) CheckerDeferFunc {
	return func(i int, c Checker, err error) {
		if err == nil {
			return
		}

		step := CheckerFuncName(c.GetFuncs()[i])
		if _, stopped := err.(CheckerStop); stopped {
			logger.Debug("checker stopped", "step", step, "reason", err)
			return
		}
		logger.Debug("checker failed", "step", step, "error", err)
	}
}
