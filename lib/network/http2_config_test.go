package network

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewHTTP2NetworkConfigFromEndpoint(t *testing.T) {
	{ // defaults
		endpoint, _ := url.Parse("http://127.0.0.1:12345")
		config, err := NewHTTP2NetworkConfigFromEndpoint("n0", endpoint)
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:12345", config.Addr)
		require.Equal(t, 5*time.Second, config.IdleTimeout)
		require.Equal(t, time.Duration(0), config.ReadTimeout)
		require.Equal(t, time.Duration(0), config.ShutdownTimeout)
		require.False(t, config.IsHTTPS())
	}

	{
		endpoint, _ := url.Parse("https://0.0.0.0:12345?TLSCertFile=a.crt&TLSKeyFile=a.key&ReadTimeout=3s&ShutdownTimeout=1m")
		config, err := NewHTTP2NetworkConfigFromEndpoint("n0", endpoint)
		require.NoError(t, err)
		require.True(t, config.IsHTTPS())
		require.Equal(t, "a.crt", config.TLSCertFile)
		require.Equal(t, 3*time.Second, config.ReadTimeout)
		require.Equal(t, time.Minute, config.ShutdownTimeout)
	}

	{ // https without certificates
		endpoint, _ := url.Parse("https://0.0.0.0:12345")
		_, err := NewHTTP2NetworkConfigFromEndpoint("n0", endpoint)
		require.Error(t, err)
	}

	for _, query := range []string{"IdleTimeout=soon", "WriteTimeout=-1s"} {
		endpoint, _ := url.Parse("http://0.0.0.0:12345?" + query)
		_, err := NewHTTP2NetworkConfigFromEndpoint("n0", endpoint)
		require.Error(t, err, query)
	}
}
