package common

import (
	"bytes"
	"encoding/json"
	"os"
)

// GetENVValue returns `defaultValue` when `key` is not set at all; an empty
// value is returned as is.
func GetENVValue(key, defaultValue string) string {
	if v, found := os.LookupEnv(key); found {
		return v
	}

	return defaultValue
}

func InStringArray(a []string, s string) (int, bool) {
	for i, h := range a {
		if h == s {
			return i, true
		}
	}

	return -1, false
}

// RemoveFromStringArray returns `a` without the first `s`, and whether it was
// found. `a` itself is not modified.
func RemoveFromStringArray(a []string, s string) ([]string, bool) {
	index, found := InStringArray(a, s)
	if !found {
		return a, false
	}

	b := make([]string, 0, len(a)-1)
	b = append(b, a[:index]...)

	return append(b, a[index+1:]...), true
}

func MustMarshalJSON(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}

// JSONMarshalWithoutEscapeHTML keeps '<', '>' and '&' of titles and reasons
// as they were submitted.
func JSONMarshalWithoutEscapeHTML(v interface{}) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

// EncodeJSONValue is the encoding of every stored record.
func EncodeJSONValue(v interface{}) ([]byte, error) {
	return JSONMarshalWithoutEscapeHTML(v)
}

func DecodeJSONValue(b []byte, v interface{}) error {
	return json.Unmarshal(b, v)
}
