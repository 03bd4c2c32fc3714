package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"sigs.k8s.io/yaml"

	"github.com/pola/git-parameter-plugin/gitparameter/validation"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
)

var (
	LogFormat string
	LogLevel  string
)

// PrintResource prints a single resource in YAML or JSON format to w according to the output format
func PrintResource(w io.Writer, resource any, output string) error {
	switch output {
	case "json":
		jsonBytes, err := json.MarshalIndent(resource, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to marshal resource to json: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
	case "yaml":
		yamlBytes, err := yaml.Marshal(resource)
		if err != nil {
			return fmt.Errorf("unable to marshal resource to yaml: %w", err)
		}
		fmt.Fprint(w, string(yamlBytes))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
	return nil
}

// SaveToFile writes resource to outputPath in YAML or JSON format
func SaveToFile(resource any, outputFormat string, outputPath string) error {
	var data []byte
	var err error
	switch outputFormat {
	case "yaml":
		if data, err = yaml.Marshal(resource); err != nil {
			return err
		}
	case "json":
		if data, err = json.Marshal(resource); err != nil {
			return err
		}
	default:
		return fmt.Errorf("format %s is not supported", outputFormat)
	}

	return os.WriteFile(outputPath, data, 0o644)
}

// PrintResultSet prints the values of rs one per line, marking the selected one, followed by the
// diagnostics. The wide format adds the commit details of revision entries.
func PrintResultSet(w io.Writer, rs *v1alpha1.ResultSet, wide bool, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if wide {
		fmt.Fprintf(tw, "SELECTED\tVALUE\tAGE\tAUTHOR\tSUBJECT\n")
	}
	for _, item := range rs.Items {
		selected := ""
		if rs.Selected != "" && item.Value == rs.Selected {
			selected = "*"
		}
		if !wide {
			fmt.Fprintf(tw, "%s\t%s\n", selected, item.Display())
			continue
		}
		age, author, subject := "", "", ""
		if item.Revision != nil {
			age = humanize.RelTime(item.Revision.Date, now, "ago", "from now")
			author = item.Revision.Author
			subject = item.Revision.Subject
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", selected, item.Value, age, author, subject)
	}
	_ = tw.Flush()
	for _, d := range rs.Diagnostics {
		fmt.Fprintf(w, "%s: %s\n", d.Type, d.Message)
	}
}

// PrintFormValidations prints configuration check results of one parameter as a table
func PrintFormValidations(w io.Writer, parameter string, results []validation.FormValidation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", parameter, r.Field, r.Kind, r.Message)
	}
	_ = tw.Flush()
}
