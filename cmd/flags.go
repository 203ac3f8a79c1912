package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StandardFlags provides consistent output flag definitions across commands
type StandardFlags struct {
	Format  string
	Verbose bool
	Quiet   bool
}

// AddOutputFlags adds the shared output flags to a command
func AddOutputFlags(cmd *cobra.Command) *StandardFlags {
	flags := &StandardFlags{}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "table", "Output format")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	return flags
}

// ValidateFormat checks a format value against the supported set,
// suggesting the closest match on a near miss.
func ValidateFormat(format string, supported []string) error {
	lower := strings.ToLower(format)
	for _, s := range supported {
		if lower == s {
			return nil
		}
	}

	for _, s := range supported {
		if strings.HasPrefix(s, lower) && lower != "" {
			return fmt.Errorf("unsupported format %q (did you mean %q?)", format, s)
		}
	}
	return fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(supported, ", "))
}

// lookupFlag returns a command's flag by name, checking persistent
// flags as well.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag
	}
	return cmd.PersistentFlags().Lookup(name)
}
