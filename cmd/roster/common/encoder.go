package common

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

type Encode func(v interface{}, w io.Writer) error

// Encoders maps the values of a `--format` flag to their encoding.
type Encoders map[string]Encode

var DefaultEncoders = Encoders{
	"json":       jsonEncoder(false),
	"prettyjson": jsonEncoder(true),
	"yaml": func(v interface{}, w io.Writer) error {
		return yaml.NewEncoder(w).Encode(v)
	},
}

func jsonEncoder(pretty bool) Encode {
	return func(v interface{}, w io.Writer) error {
		e := json.NewEncoder(w)
		if pretty {
			e.SetIndent("", "  ")
		}

		return e.Encode(v)
	}
}

// With returns a copy of `e` which also knows `format`.
func (e Encoders) With(format string, encode Encode) Encoders {
	n := Encoders{format: encode}
	for k, v := range e {
		if _, found := n[k]; !found {
			n[k] = v
		}
	}

	return n
}

func (e Encoders) Encode(format string, v interface{}, w io.Writer) error {
	encode, found := e[format]
	if !found {
		return fmt.Errorf("format %q not recognized, expected one of %s", format, e.Formats())
	}

	return encode(v, w)
}

// Formats is the sorted list of formats, like "{json, prettyjson, yaml}".
func (e Encoders) Formats() string {
	var formats []string
	for k := range e {
		formats = append(formats, k)
	}
	sort.Strings(formats)

	return "{" + strings.Join(formats, ", ") + "}"
}
