package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdutil "github.com/pola/git-parameter-plugin/cmd/util"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/errors"
)

// NewCreateValueCommand returns a new instance of the `create-value` command
func NewCreateValueCommand(opts *rootOptions) *cobra.Command {
	var (
		payload    string
		formValues []string
		output     string
	)
	command := &cobra.Command{
		Use:   "create-value JOB PARAMETER [VALUE]",
		Short: "Validate a submitted parameter value",
		Long:  "Validate a submitted parameter value the way a build trigger does. Without a value the default parameter value is used.",
		Example: `  # Submit a value directly
  git-parameter create-value folder/job1 BRANCH origin/master

  # Submit a structured payload
  git-parameter create-value folder/job1 BRANCH --payload '{"name":"BRANCH","value":"origin/master"}'

  # Submit interactive form values
  git-parameter create-value folder/job1 BRANCH --form origin/master`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(c *cobra.Command, args []string) error {
			set, err := opts.newServiceSet()
			if err != nil {
				return err
			}
			job, def, err := set.service.Definition(args[0], args[1])
			if err != nil {
				return err
			}
			ctx, cancel := opts.withTimeout(c.Context())
			defer cancel()
			validator := set.service.Validator(ctx, job, *def)

			var value *v1alpha1.AcceptedValue
			switch {
			case c.Flags().Changed("payload"):
				value, err = validator.CreateValueFromPayload([]byte(payload))
			case c.Flags().Changed("form"):
				value, err = validator.CreateValueFromForm(formValues)
			case len(args) == 3:
				value, err = validator.CreateValueFromInvocation(&args[2])
			default:
				value, err = validator.CreateValueFromInvocation(nil)
			}
			set.service.RecordSubmission(err)
			if err != nil {
				errors.Fatal(errors.ErrorValueRejected, err)
				return err
			}

			if output == "" {
				fmt.Fprintln(c.OutOrStdout(), value.String())
				return nil
			}
			return cmdutil.PrintResource(c.OutOrStdout(), value, output)
		},
	}
	command.Flags().StringVar(&payload, "payload", "", "Structured JSON payload of the form {\"name\":..., \"value\":...}")
	command.Flags().StringArrayVar(&formValues, "form", nil, "Interactive form value, only the first one counts")
	command.Flags().StringVarP(&output, "output", "o", "", "Output format. One of: json|yaml")
	return command
}
