package client

import (
	"bytes"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/net/http2"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Retry controls how reads are retried. Operations and streams are never
// retried: a resubmitted operation may apply twice.
type Retry struct {
	MaxRetries int
	Backoff    pester.BackoffStrategy
}

var DefaultRetry = Retry{
	MaxRetries: 3,
	Backoff:    pester.ExponentialBackoff,
}

type Options struct {
	// Timeout bounds a single read or submission; streams are bounded by
	// their context only.
	Timeout  time.Duration
	Insecure bool
	Retry    *Retry
}

var DefaultOptions = Options{
	Timeout:  10 * time.Second,
	Insecure: true,
	Retry:    &DefaultRetry,
}

type transport struct {
	reads  doer
	once   *http.Client
	stream *http.Client
	base   *http.Transport
}

func newTransport(opts Options) (*transport, error) {
	base := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.Insecure,
		},
		IdleConnTimeout: 90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	if err := http2.ConfigureTransport(base); err != nil {
		return nil, err
	}

	noRedirect := func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	t := &transport{
		base: base,
		once: &http.Client{
			Transport:     base,
			Timeout:       opts.Timeout,
			CheckRedirect: noRedirect,
		},
		stream: &http.Client{
			Transport:     base,
			CheckRedirect: noRedirect,
		},
	}

	t.reads = t.once
	if opts.Retry != nil && opts.Retry.MaxRetries > 0 {
		ec := pester.NewExtendedClient(t.once)
		ec.MaxRetries = opts.Retry.MaxRetries
		ec.Concurrency = 1
		if opts.Retry.Backoff != nil {
			ec.Backoff = opts.Retry.Backoff
		}
		t.reads = ec
	}

	return t, nil
}

func (t *transport) get(url string, headers http.Header) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header = headers

	return t.reads.Do(req)
}

func (t *transport) post(url string, b []byte, headers http.Header) (*http.Response, error) {
	req, err := http.NewRequest("POST", url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header = headers

	return t.once.Do(req)
}

func (t *transport) close() {
	t.base.CloseIdleConnections()
}
