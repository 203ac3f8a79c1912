package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	supported := []string{"table", "json", "yaml", "csv"}

	tests := []struct {
		format  string
		wantErr string
	}{
		{"table", ""},
		{"JSON", ""},
		{"csv", ""},
		{"jso", `did you mean "json"`},
		{"ya", `did you mean "yaml"`},
		{"xml", "supported: table, json, yaml, csv"},
		{"", "supported:"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format, supported)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddOutputFlags(t *testing.T) {
	command := &cobra.Command{Use: "probe"}
	flags := AddOutputFlags(command)

	assert.Equal(t, "table", flags.Format)
	assert.NotNil(t, command.Flags().Lookup("format"))
	assert.NotNil(t, command.Flags().Lookup("verbose"))
	assert.NotNil(t, command.Flags().Lookup("quiet"))
}

func TestLookupFlag(t *testing.T) {
	command := &cobra.Command{Use: "probe"}
	command.Flags().Int("port", 8090, "")
	command.PersistentFlags().String("log-level", "info", "")

	require.NotNil(t, lookupFlag(command, "port"))
	require.NotNil(t, lookupFlag(command, "log-level"))
	assert.Nil(t, lookupFlag(command, "missing"))
}

func TestHelpExamplesMatchCommandShapes(t *testing.T) {
	// The quick-start must show the real subcommand form.
	assert.Contains(t, rootCmd.Long, "curator new pattern ")
	assert.NotContains(t, rootCmd.Long, "curator new typescript")

	// The scanner refuses roots outside the working directory, so
	// examples must not suggest traversal paths.
	assert.NotContains(t, checkCmd.Long, "..")
}

func TestCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, command := range rootCmd.Commands() {
		names[command.Name()] = true
	}

	for _, expected := range []string{"check", "list", "serve", "watch", "init", "new", "version"} {
		assert.True(t, names[expected], "command %s not registered", expected)
	}
}
