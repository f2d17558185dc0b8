package common

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncoders(t *testing.T) {
	v := map[string]string{"title": "chess club"}

	{
		var b bytes.Buffer
		require.NoError(t, DefaultEncoders.Encode("json", v, &b))
		require.Equal(t, "{\"title\":\"chess club\"}\n", b.String())
	}

	{
		var b bytes.Buffer
		require.NoError(t, DefaultEncoders.Encode("yaml", v, &b))
		require.Equal(t, "title: chess club\n", b.String())
	}

	{
		var b bytes.Buffer
		require.Error(t, DefaultEncoders.Encode("xml", v, &b))
		require.Empty(t, b.String())
	}
}

func TestEncodersWith(t *testing.T) {
	title := func(v interface{}, w io.Writer) error {
		_, err := fmt.Fprintln(w, v.(map[string]string)["title"])
		return err
	}
	encoders := DefaultEncoders.With("title", title)

	require.Equal(t, "{json, prettyjson, title, yaml}", encoders.Formats())
	require.Equal(t, "{json, prettyjson, yaml}", DefaultEncoders.Formats())

	var b bytes.Buffer
	require.NoError(t, encoders.Encode("title", map[string]string{"title": "chess club"}, &b))
	require.Equal(t, "chess club\n", b.String())
}
