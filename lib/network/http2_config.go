package network

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"boscoin.io/roster/lib/common"
)

// HTTP2NetworkConfig is read from the query of the node endpoint, like
// 'https://0.0.0.0:12345?TLSCertFile=roster.crt&TLSKeyFile=roster.key&IdleTimeout=10s'.
type HTTP2NetworkConfig struct {
	NodeName string
	Endpoint *url.URL
	Addr     string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration

	TLSCertFile string
	TLSKeyFile  string
}

func NewHTTP2NetworkConfigFromEndpoint(nodeName string, endpoint *url.URL) (*HTTP2NetworkConfig, error) {
	query := endpoint.Query()

	config := &HTTP2NetworkConfig{
		NodeName:    nodeName,
		Endpoint:    endpoint,
		Addr:        endpoint.Host,
		TLSCertFile: query.Get("TLSCertFile"),
		TLSKeyFile:  query.Get("TLSKeyFile"),
	}

	timeouts := []struct {
		key          string
		defaultValue time.Duration
		d            *time.Duration
	}{
		{"ReadTimeout", 0, &config.ReadTimeout},
		{"ReadHeaderTimeout", 0, &config.ReadHeaderTimeout},
		{"WriteTimeout", 0, &config.WriteTimeout},
		{"IdleTimeout", 5 * time.Second, &config.IdleTimeout},
		{"ShutdownTimeout", 0, &config.ShutdownTimeout},
	}
	for _, t := range timeouts {
		*t.d = t.defaultValue

		s := query.Get(t.key)
		if len(s) < 1 {
			continue
		}

		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid '%s': %v", t.key, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid '%s': negative duration", t.key)
		}
		*t.d = d
	}

	if config.IsHTTPS() && (len(config.TLSCertFile) < 1 || len(config.TLSKeyFile) < 1) {
		return nil, errors.New("HTTPS needs `TLSCertFile` and `TLSKeyFile`")
	}

	return config, nil
}

func (config HTTP2NetworkConfig) IsHTTPS() bool {
	return strings.ToLower(config.Endpoint.Scheme) == "https"
}

func (config HTTP2NetworkConfig) String() string {
	return string(common.MustMarshalJSON(config))
}
