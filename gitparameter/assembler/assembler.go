package assembler

import (
	"slices"

	"github.com/pola/git-parameter-plugin/common"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
)

// Assemble merges the filtered and sorted entry groups, in the order given, into the result of one
// request. Entries repeating an earlier display value are dropped. When nothing is left the default
// value becomes the only entry and the diagnostics are framed by an explanation.
func Assemble(def v1alpha1.GitParameterDefinition, groups [][]v1alpha1.RefEntry, diagnostics []v1alpha1.Diagnostic) *v1alpha1.ResultSet {
	diagnostics = slices.Clone(diagnostics)
	slices.SortStableFunc(diagnostics, func(a, b v1alpha1.Diagnostic) int {
		return int(a.Stage) - int(b.Stage)
	})

	result := &v1alpha1.ResultSet{Items: merge(groups)}
	if len(result.Items) == 0 {
		result.Items = []v1alpha1.RefEntry{{Value: def.DefaultValue}}
		framed := make([]v1alpha1.Diagnostic, 0, len(diagnostics)+2)
		framed = append(framed, v1alpha1.Diagnostic{Type: v1alpha1.DiagnosticDefaultValueInfo, Message: common.MessageDefaultValueReturned})
		framed = append(framed, diagnostics...)
		framed = append(framed, v1alpha1.Diagnostic{Type: v1alpha1.DiagnosticCheckConfigurationInfo, Stage: v1alpha1.StageFilter, Message: common.MessageCheckConfiguration})
		diagnostics = framed
	}
	result.Diagnostics = diagnostics
	selectValue(result, def)
	return result
}

func merge(groups [][]v1alpha1.RefEntry) []v1alpha1.RefEntry {
	seen := make(map[string]bool)
	var merged []v1alpha1.RefEntry
	for _, group := range groups {
		for _, entry := range group {
			display := entry.Display()
			if seen[display] {
				continue
			}
			seen[display] = true
			merged = append(merged, entry)
		}
	}
	return merged
}

func selectValue(result *v1alpha1.ResultSet, def v1alpha1.GitParameterDefinition) {
	switch def.GetSelectedValue() {
	case v1alpha1.SelectedValueTop:
		if i := indexOf(result.Items, def.DefaultValue); i > 0 && def.DefaultValue != "" {
			entry := result.Items[i]
			result.Items = slices.Delete(result.Items, i, i+1)
			result.Items = slices.Insert(result.Items, 0, entry)
		}
		result.Selected = result.Items[0].Value
	case v1alpha1.SelectedValueDefault:
		if indexOf(result.Items, def.DefaultValue) >= 0 {
			result.Selected = def.DefaultValue
		}
	}
}

func indexOf(items []v1alpha1.RefEntry, value string) int {
	return slices.IndexFunc(items, func(e v1alpha1.RefEntry) bool { return e.Value == value })
}
