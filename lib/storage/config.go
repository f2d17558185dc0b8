package storage

import (
	"net/url"
	"strings"

	"boscoin.io/roster/lib/errors"
)

// Config is parsed from a storage uri, `file:///path/to/db` or `memory://`.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return nil, errors.StorageCoreError.Clone().SetData("error", err.Error())
	}

	config := &Config{Scheme: strings.ToLower(parsed.Scheme)}
	switch config.Scheme {
	case "memory":
	case "file":
		config.Path = parsed.Path
		if len(config.Path) < 1 {
			return nil, errors.StorageCoreError.Clone().SetData("error", "empty path for file storage")
		}
	default:
		return nil, errors.StorageCoreError.Clone().SetData("error", "unknown storage scheme: "+parsed.Scheme)
	}

	return config, nil
}

func (c Config) String() string {
	if c.Scheme == "file" {
		return "file://" + c.Path
	}

	return c.Scheme + "://"
}
