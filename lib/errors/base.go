package errors

import (
	"encoding/json"
)

type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (o *Error) Serialize() (b []byte, err error) {
	b, err = json.Marshal(o)
	return
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

func (o *Error) SetData(k string, v interface{}) *Error {
	o.Data[k] = v

	return o
}

func (o *Error) Clone() *Error {
	var new Error
	new = *o

	new.Data = map[string]interface{}{}
	if o.Data != nil && len(o.Data) > 0 {
		for k, v := range o.Data {
			new.Data[k] = v
		}
	}

	return &new
}

// Is reports whether err carries the same code as target. Clones made by
// `Clone().SetData()` still match their origin.
func Is(err error, target *Error) bool {
	e, ok := err.(*Error)
	if !ok || e == nil || target == nil {
		return false
	}

	return e.Code == target.Code
}

// Kind groups codes by the range they were allocated from.
func (o *Error) Kind() Kind {
	switch {
	case o.Code >= 100 && o.Code < 200:
		return KindValidation
	case o.Code >= 200 && o.Code < 300:
		return KindPrecondition
	case o.Code >= 300 && o.Code < 400:
		return KindResource
	case o.Code >= 400 && o.Code < 500:
		return KindInvariant
	default:
		return KindInternal
	}
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message, Data: map[string]interface{}{}}
}

// New wraps an arbitrary message as a storage core error.
func New(message string) *Error {
	return StorageCoreError.Clone().SetData("error", message)
}
