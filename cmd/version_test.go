package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionShort(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	require.NoError(t, versionCmd.Flags().Set("short", "true"))
	t.Cleanup(func() { _ = versionCmd.Flags().Set("short", "false") })

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, Version+"\n", buf.String())
}
