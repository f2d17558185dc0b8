package common

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"time"

	logging "github.com/inconshreveable/log15"
	isatty "github.com/mattn/go-isatty"

	"boscoin.io/roster/lib/errors"
)

const (
	LogOutputStdout = "<stdout>"

	logTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"
	logErrorKey   = "log-error"
)

var (
	DefaultLogLevel   logging.Lvl     = logging.LvlInfo
	DefaultLogHandler logging.Handler = logging.StreamHandler(os.Stdout, logging.TerminalFormat())
)

func SetLogging(logger logging.Logger, level logging.Lvl, handler logging.Handler) {
	logger.SetHandler(logging.LvlFilterHandler(level, handler))
}

// NopLogger discards every record.
func NopLogger() logging.Logger {
	logger := logging.New()
	logger.SetHandler(logging.DiscardHandler())
	return logger
}

// NewLogHandler writes to stdout when `output` is empty or
// `LogOutputStdout`, otherwise appends to the file `output`. A terminal gets
// the colored format, anything else one json object per line.
func NewLogHandler(output string) (handler logging.Handler, err error) {
	switch output {
	case "", LogOutputStdout:
		if isatty.IsTerminal(os.Stdout.Fd()) {
			handler = logging.StreamHandler(os.Stdout, logging.TerminalFormat())
		} else {
			handler = logging.StreamHandler(os.Stdout, JSONLineFormat())
		}
	default:
		if handler, err = logging.FileHandler(output, JSONLineFormat()); err != nil {
			return nil, err
		}
	}

	return logging.CallerFileHandler(handler), nil
}

// JSONLineFormat is like `logging.JsonFormat()`, but keeps the structure of
// values which know how to marshal themselves, like `Amount` and
// `*errors.Error`.
func JSONLineFormat() logging.Format {
	return logging.FormatFunc(func(r *logging.Record) []byte {
		props := map[string]interface{}{
			r.KeyNames.Time: r.Time.Format(logTimeFormat),
			r.KeyNames.Lvl:  r.Lvl.String(),
			r.KeyNames.Msg:  r.Msg,
		}

		for i := 0; i+1 < len(r.Ctx); i += 2 {
			k, ok := r.Ctx[i].(string)
			if !ok {
				props[logErrorKey] = fmt.Sprintf("%+v is not a string key", r.Ctx[i])
				continue
			}
			props[k] = logValue(r.Ctx[i+1])
		}

		b, err := json.Marshal(props)
		if err != nil {
			b, _ = json.Marshal(map[string]string{logErrorKey: err.Error()})
		}

		return append(b, '\n')
	})
}

func logValue(value interface{}) (result interface{}) {
	defer func() {
		if r := recover(); r != nil {
			if v := reflect.ValueOf(value); v.Kind() == reflect.Ptr && v.IsNil() {
				result = nil
				return
			}
			result = fmt.Sprintf("%+v", r)
		}
	}()

	switch v := value.(type) {
	case *errors.Error, json.Marshaler:
		return v
	case time.Time:
		return v.Format(logTimeFormat)
	case time.Duration:
		return v.String()
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}
