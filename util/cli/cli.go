// Package cli provides functionality common to the git-parameter CLI commands
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pola/git-parameter-plugin/common"
	"github.com/pola/git-parameter-plugin/util/config"
	"github.com/pola/git-parameter-plugin/util/log"
)

// NewVersionCmd returns a new `version` command to be used as a sub-command to root
func NewVersionCmd(cliName string) *cobra.Command {
	var short bool
	versionCmd := cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			version := common.GetVersion()
			fmt.Fprintf(out, "%s: %s\n", cliName, version)
			if short {
				return
			}
			fmt.Fprintf(out, "  BuildDate: %s\n", version.BuildDate)
			fmt.Fprintf(out, "  GitCommit: %s\n", version.GitCommit)
			fmt.Fprintf(out, "  GitTreeState: %s\n", version.GitTreeState)
			if version.GitTag != "" {
				fmt.Fprintf(out, "  GitTag: %s\n", version.GitTag)
			}
			fmt.Fprintf(out, "  GoVersion: %s\n", version.GoVersion)
			fmt.Fprintf(out, "  Compiler: %s\n", version.Compiler)
			fmt.Fprintf(out, "  Platform: %s\n", version.Platform)
		},
	}
	versionCmd.Flags().BoolVar(&short, "short", false, "print just the version number")
	return &versionCmd
}

// AddLogFlagsToCmd registers the --logformat and --loglevel flags and returns a hook applying them
func AddLogFlagsToCmd(cmd *cobra.Command, logFormat, logLevel *string) func() error {
	cmd.PersistentFlags().StringVar(logFormat, "logformat", config.GetFlag("logformat", ""), "Set the logging format. One of: text|json")
	cmd.PersistentFlags().StringVar(logLevel, "loglevel", config.GetFlag("loglevel", ""), "Set the logging level. One of: debug|info|warn|error")
	return func() error {
		return log.SetupGlobal(*logFormat, *logLevel)
	}
}
