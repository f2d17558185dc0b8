package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	neturl "net/url"
	"strings"
)

const (
	UrlPrefixForAPIV1 = "/api/v1"

	UrlNodeInfo     = "/"
	UrlRosters      = "/rosters"
	UrlRoster       = "/rosters/{id}"
	UrlRosterEvents = "/rosters/{id}/events"
	UrlExpulsions   = "/rosters/{id}/expulsions"
	UrlNomination   = "/rosters/{id}/nominations/{nominee}"
	UrlExpulsion    = "/rosters/{id}/expulsions/{motioner}/{subject}"
	UrlAccount      = "/accounts/{id}"
	UrlEvents       = "/events"
	UrlOperations   = "/operations"
)

type QueryKey string

func (qk QueryKey) String() string {
	return string(qk)
}

const (
	QueryLimit   QueryKey = "limit"
	QueryReverse QueryKey = "reverse"
	QueryCursor  QueryKey = "cursor"
)

type Q struct {
	Key   QueryKey
	Value string
}

type Queries []Q

func (qs Queries) toQueryString() string {
	if len(qs) == 0 {
		return ""
	}

	urlValues := neturl.Values{}
	for _, q := range qs {
		switch q.Key {
		case QueryLimit, QueryReverse, QueryCursor:
			urlValues.Add(q.Key.String(), q.Value)
		}
	}
	return "?" + urlValues.Encode()
}

// Client talks to the api of a roster node. Reads are retried; submitted
// operations are sent once.
type Client struct {
	URL string

	t *transport
}

func NewClient(url string) (*Client, error) {
	return NewClientWithOptions(url, DefaultOptions)
}

func NewClientWithOptions(url string, opts Options) (*Client, error) {
	t, err := newTransport(opts)
	if err != nil {
		return nil, err
	}

	return &Client{URL: strings.TrimRight(url, "/"), t: t}, nil
}

func (c *Client) Close() {
	c.t.close()
}

func (c *Client) toResponse(resp *http.Response, response interface{}) (err error) {
	defer resp.Body.Close()
	decoder := json.NewDecoder(resp.Body)

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p Problem
		if err = decoder.Decode(&p); err != nil {
			p = Problem{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		}
		return Error{Problem: p}
	}

	return decoder.Decode(response)
}

func (c *Client) Get(path string, headers http.Header) (response *http.Response, err error) {
	return c.t.get(c.URL+UrlPrefixForAPIV1+path, headers)
}

func (c *Client) Post(path string, body []byte, headers http.Header) (response *http.Response, err error) {
	return c.t.post(c.URL+UrlPrefixForAPIV1+path, body, headers)
}

func (c *Client) load(path string, response interface{}, queries ...Q) error {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	resp, err := c.Get(path+Queries(queries).toQueryString(), headers)
	if err != nil {
		return err
	}

	return c.toResponse(resp, response)
}

func replace(url string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(url)
}

func (c *Client) LoadNodeInfo() (info NodeInfo, err error) {
	err = c.load(UrlNodeInfo, &info)
	return
}

func (c *Client) LoadRoster(id string) (r Roster, err error) {
	err = c.load(replace(UrlRoster, "{id}", id), &r)
	return
}

func (c *Client) LoadRosters(queries ...Q) (page RostersPage, err error) {
	err = c.load(UrlRosters, &page, queries...)
	return
}

func (c *Client) LoadNomination(id, nominee string) (n Nomination, err error) {
	err = c.load(replace(UrlNomination, "{id}", id, "{nominee}", nominee), &n)
	return
}

func (c *Client) LoadExpulsion(id, motioner, subject string) (e Expulsion, err error) {
	err = c.load(replace(UrlExpulsion, "{id}", id, "{motioner}", motioner, "{subject}", subject), &e)
	return
}

func (c *Client) LoadExpulsions(id string) (page ExpulsionsPage, err error) {
	err = c.load(replace(UrlExpulsions, "{id}", id), &page)
	return
}

func (c *Client) LoadAccount(id string) (account Account, err error) {
	err = c.load(replace(UrlAccount, "{id}", id), &account)
	return
}

// SubmitOperation posts a signed operation, the json of
// `operation.Operation`.
func (c *Client) SubmitOperation(op []byte) (result OperationResult, err error) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	resp, err := c.Post(UrlOperations, op, headers)
	if err != nil {
		return
	}

	err = c.toResponse(resp, &result)
	return
}

// Stream calls `handler` with every non empty line until `ctx` is done or
// the connection is closed.
func (c *Client) Stream(ctx context.Context, path string, handler func(data []byte) error) (err error) {
	request, err := http.NewRequest("GET", c.URL+UrlPrefixForAPIV1+path, nil)
	if err != nil {
		return err
	}
	request = request.WithContext(ctx)

	resp, err := c.t.stream.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return c.toResponse(resp, nil)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := handler(line); err != nil {
			return err
		}
	}
}

// StreamRosterEvents gets the current roster first, then its events.
func (c *Client) StreamRosterEvents(ctx context.Context, id string, onRoster func(Roster), handler func(Event)) error {
	first := true
	return c.Stream(ctx, replace(UrlRosterEvents, "{id}", id), func(b []byte) error {
		if first {
			first = false

			var r Roster
			if err := json.Unmarshal(b, &r); err != nil {
				return err
			}
			if onRoster != nil {
				onRoster(r)
			}
			return nil
		}

		var e Event
		if err := json.Unmarshal(b, &e); err != nil {
			return err
		}
		handler(e)
		return nil
	})
}

func (c *Client) StreamEvents(ctx context.Context, handler func(Event)) error {
	return c.Stream(ctx, UrlEvents, func(b []byte) error {
		var e Event
		if err := json.Unmarshal(b, &e); err != nil {
			return err
		}
		handler(e)
		return nil
	})
}
