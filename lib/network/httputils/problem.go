package httputils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"boscoin.io/roster/lib/errors"
)

const (
	ProblemContentType = "application/problem+json"
	ProblemTypePrefix  = "https://boscoin.io/roster/errors/"
)

var (
	ProblemDefaultBadRequest          = NewStatusProblem(http.StatusBadRequest)
	ProblemDefaultNotFound            = NewStatusProblem(http.StatusNotFound)
	ProblemDefaultMethodNotAllowed    = NewStatusProblem(http.StatusMethodNotAllowed)
	ProblemDefaultTooManyRequests     = NewStatusProblem(http.StatusTooManyRequests)
	ProblemDefaultInternalServerError = NewStatusProblem(http.StatusInternalServerError)
)

// Problem is the RFC7807 error document.
type Problem struct {
	// "type" (string) - A URI reference [RFC3986] that identifies the
	// problem type. When this member is not present, its value is assumed
	// to be "about:blank".
	Type string `json:"type"`

	// "title" (string) - A short, human-readable summary of the problem
	// type.
	Title string `json:"title"`

	// "status" (number) - The HTTP status code generated by the origin
	// server for this occurrence of the problem.
	Status int `json:"status,omitempty"`

	// "detail" (string) - A human-readable explanation specific to this
	// occurrence of the problem.
	Detail string `json:"detail,omitempty"`

	// "instance" (string) - A URI reference that identifies the specific
	// occurrence of the problem.
	Instance string `json:"instance,omitempty"`

	// Code and Data are carried over from `*errors.Error`.
	Code uint                   `json:"code,omitempty"`
	Data map[string]interface{} `json:"data,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{Type: "about:blank", Title: http.StatusText(status), Status: status}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

// NewErrorProblem builds the problem of `err`. `*errors.Error` keeps its code
// and data, anything else becomes a bare title.
func NewErrorProblem(err error, status int) Problem {
	e, ok := err.(*errors.Error)
	if !ok {
		return Problem{Type: "about:blank", Title: err.Error(), Status: status}
	}

	p := Problem{
		Type:   fmt.Sprintf("%s%d", ProblemTypePrefix, e.Code),
		Title:  e.Message,
		Status: status,
		Code:   e.Code,
	}
	if len(e.Data) > 0 {
		p.Data = e.Data
	}

	return p
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}

func (p Problem) SetDetail(detail string) Problem {
	p.Detail = detail
	return p
}

func (p Problem) Serialize() ([]byte, error) {
	return json.Marshal(p)
}
