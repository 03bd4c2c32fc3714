package commands

import (
	"time"

	"github.com/spf13/cobra"

	cmdutil "github.com/pola/git-parameter-plugin/cmd/util"
)

// NewListCommand returns a new instance of the `list` command
func NewListCommand(opts *rootOptions) *cobra.Command {
	var (
		output        string
		useRepository string
	)
	command := &cobra.Command{
		Use:   "list JOB PARAMETER",
		Short: "List the values offered by a git parameter",
		Example: `  # List the values of parameter BRANCH of job folder/job1
  git-parameter list folder/job1 BRANCH --catalogue jobs.yaml

  # Show commit details of a revision parameter
  git-parameter list folder/job1 REVISION -o wide`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			set, err := opts.newServiceSet()
			if err != nil {
				return err
			}
			job, def, err := set.service.Definition(args[0], args[1])
			if err != nil {
				return err
			}
			definition := *def
			if c.Flags().Changed("use-repository") {
				definition = definition.WithUseRepository(useRepository)
			}

			ctx, cancel := opts.withTimeout(c.Context())
			defer cancel()
			result := set.service.FillValueItemsFor(ctx, job, definition)

			switch output {
			case "", "wide":
				cmdutil.PrintResultSet(c.OutOrStdout(), result, output == "wide", time.Now())
				return nil
			default:
				return cmdutil.PrintResource(c.OutOrStdout(), result, output)
			}
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "", "Output format. One of: json|yaml|wide")
	command.Flags().StringVar(&useRepository, "use-repository", "", "Override the use-repository pattern of the parameter")
	return command
}
