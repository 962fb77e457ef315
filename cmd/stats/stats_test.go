package stats

import (
	"bytes"
	"testing"

	"huffar/pkg/stats"

	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	r, err := stats.Compute([]byte("aaabbc"))
	require.NoError(t, err)

	var buf bytes.Buffer
	report(&buf, "sample", r, true)

	out := buf.String()
	require.Contains(t, out, "sample:\n")
	require.Contains(t, out, "Alphabet: 3 symbols")
	require.Contains(t, out, "1.5000 bits/byte, 9 bits, tree height 2")
	require.Contains(t, out, "0x61\t3\t0\n")
}
