package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatRFC3339Millis(t *testing.T) {
	t.Parallel()
	ts := time.Date(2025, 1, 2, 3, 4, 5, 678_900_000, time.FixedZone("IST", 5*3600+1800))
	require.Equal(t, "2025-01-01T21:34:05.678Z", formatRFC3339Millis(ts))
}

func TestNewWithWriter_DropsEmptyStrings(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false)

	log.Info("computed downline", "root", "m1", "note", "")
	out := buf.String()
	require.Contains(t, out, "computed downline")
	require.Contains(t, out, "m1")
	require.NotContains(t, out, "note=")

	buf.Reset()
	log.Debug("hidden")
	require.Empty(t, buf.String())
}
