package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesStdout(t *testing.T) {
	out, errb, err := execRunner{}.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
	assert.Empty(t, errb)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, _, err := execRunner{}.Run(context.Background(), "definitely-not-a-binary-xyz")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("x", 20)
	got := truncate(long, 10)
	assert.Equal(t, strings.Repeat("x", 10)+"...(truncated)", got)
}
