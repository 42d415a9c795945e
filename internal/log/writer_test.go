package log_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	logw "github.com/ralphhook/ralph-hook-fmt/internal/log"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	as := require.New(t)

	var out bytes.Buffer

	logger := log.NewWithOptions(&out, log.Options{Level: log.DebugLevel})
	w := &logw.Writer{Log: logger, Level: log.DebugLevel}

	_, err := w.Write([]byte("first line\nsecond "))
	as.NoError(err)
	as.Contains(out.String(), "first line")
	as.NotContains(out.String(), "second")

	_, err = w.Write([]byte("line\r\n\n"))
	as.NoError(err)
	as.Contains(out.String(), "second line")
	as.Equal(2, strings.Count(out.String(), "\n"))

	_, err = w.Write([]byte("trailing"))
	as.NoError(err)
	as.NotContains(out.String(), "trailing")

	w.Flush()
	as.Contains(out.String(), "trailing")
	as.Equal(3, strings.Count(out.String(), "\n"))
}

func TestWriterLevel(t *testing.T) {
	as := require.New(t)

	var out bytes.Buffer

	logger := log.NewWithOptions(&out, log.Options{Level: log.InfoLevel})
	w := &logw.Writer{Log: logger, Level: log.DebugLevel}

	_, err := w.Write([]byte("hidden\n"))
	as.NoError(err)
	as.Empty(out.String())
}
