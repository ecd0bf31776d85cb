package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunCommand(t *testing.T) {
	runCmd := NewRunCommand()
	assert.Equal(t, "run", runCmd.Use)
	require.NotNil(t, runCmd.RunE)
	for _, name := range []string{"api-only", "modules"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), name)
	}
}

func TestSubCommands(t *testing.T) {
	testcases := []struct {
		use string
		cmd *cobra.Command
	}{
		{"version", NewVersionCommand()},
		{"migrate", NewMigrateCommand()},
		{"generate-keypair", NewGenerateKeypairCommand()},
	}
	for _, tc := range testcases {
		assert.Equal(t, tc.use, tc.cmd.Use)
	}
}
