package api

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"

	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/node/runner/api/resource"
	"boscoin.io/roster/lib/storage"
)

const (
	DefaultLimit uint64 = 20
	MaxLimit     uint64 = 100
)

// PageQuery is the `cursor`, `limit` and `reverse` of a list request. In
// links the cursor, a storage key, is base64 encoded.
type PageQuery struct {
	storage.ListOptions

	url *url.URL
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		ListOptions: storage.ListOptions{Limit: DefaultLimit},
		url:         r.URL,
	}
	q := r.URL.Query()

	if s := q.Get("reverse"); len(s) > 0 {
		reverse, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.BadRequestParameter.Clone().SetData("reverse", s)
		}
		p.Reverse = reverse
	}

	if s := q.Get("limit"); len(s) > 0 {
		limit, err := strconv.ParseUint(s, 10, 64)
		if err != nil || limit < 1 || limit > MaxLimit {
			return nil, errors.BadRequestParameter.Clone().SetData("limit", s).SetData("max", MaxLimit)
		}
		p.Limit = limit
	}

	if s := q.Get("cursor"); len(s) > 0 {
		// raw storage keys are accepted too
		if b, err := base64.StdEncoding.DecodeString(s); err == nil {
			p.Cursor = b
		} else {
			p.Cursor = []byte(s)
		}
	}

	return p, nil
}

// NextLink continues in the same direction after `cursor`.
func (p *PageQuery) NextLink(cursor []byte) string {
	return p.link(cursor, p.Reverse)
}

// PrevLink turns back from `cursor`.
func (p *PageQuery) PrevLink(cursor []byte) string {
	return p.link(cursor, !p.Reverse)
}

func (p *PageQuery) link(cursor []byte, reverse bool) string {
	v := url.Values{}
	v.Set("reverse", strconv.FormatBool(reverse))
	v.Set("limit", strconv.FormatUint(p.Limit, 10))
	if len(cursor) > 0 {
		v.Set("cursor", base64.StdEncoding.EncodeToString(cursor))
	}

	return p.url.Path + "?" + v.Encode()
}

// Page links the neighbour pages when the records have cursors.
func (p *PageQuery) Page(rs []resource.Resource, firstCursor, lastCursor []byte) *resource.Page {
	var next, prev string
	if len(lastCursor) > 0 {
		next = p.NextLink(lastCursor)
	}
	if len(firstCursor) > 0 {
		prev = p.PrevLink(firstCursor)
	}

	return resource.NewPage(rs, p.url.String(), next, prev)
}
