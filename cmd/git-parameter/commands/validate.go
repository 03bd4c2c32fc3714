package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdutil "github.com/pola/git-parameter-plugin/cmd/util"
	"github.com/pola/git-parameter-plugin/gitparameter/validation"
)

// NewValidateCommand returns a new instance of the `validate` command
func NewValidateCommand(opts *rootOptions) *cobra.Command {
	var output string
	command := &cobra.Command{
		Use:   "validate JOB",
		Short: "Check the configuration of the git parameters of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			set, err := opts.newServiceSet()
			if err != nil {
				return err
			}
			job, err := set.host.GetJob(args[0])
			if err != nil {
				return err
			}

			results := make(map[string][]validation.FormValidation)
			invalid := 0
			for _, p := range job.Parameters {
				if p.Git == nil {
					continue
				}
				checks := validation.ValidateDefinition(*p.Git)
				results[p.Git.Name] = checks
				for _, check := range checks {
					if check.Kind == validation.KindError {
						invalid++
					}
				}
				if output == "" {
					cmdutil.PrintFormValidations(c.OutOrStdout(), p.Git.Name, checks)
				}
			}
			if output != "" {
				if err := cmdutil.PrintResource(c.OutOrStdout(), results, output); err != nil {
					return err
				}
			}
			if invalid > 0 {
				return fmt.Errorf("job '%s' has %d invalid git parameter settings", job.Name, invalid)
			}
			return nil
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "", "Output format. One of: json|yaml")
	return command
}
