package validation

import (
	"fmt"
	"strings"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/glob"
	"github.com/pola/git-parameter-plugin/util/regex"
)

// Kind is the severity of a configuration check
type Kind string

const (
	KindOK      Kind = "OK"
	KindWarning Kind = "WARNING"
	KindError   Kind = "ERROR"
)

// FormValidation is the outcome of checking one configuration field
type FormValidation struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok() FormValidation {
	return FormValidation{Kind: KindOK}
}

func warning(format string, args ...any) FormValidation {
	return FormValidation{Kind: KindWarning, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) FormValidation {
	return FormValidation{Kind: KindError, Message: fmt.Sprintf(format, args...)}
}

// ValidateBranchFilter checks that the branch filter is a valid regular expression
func ValidateBranchFilter(value string) FormValidation {
	if err := regex.Validate(value); err != nil {
		return failure("Invalid branch filter: %v", err)
	}
	return ok()
}

// ValidateUseRepository checks that the use-repository pattern, if set, is a valid regular expression
func ValidateUseRepository(value string) FormValidation {
	if strings.TrimSpace(value) == "" {
		return ok()
	}
	if err := regex.Validate(value); err != nil {
		return failure("Invalid use-repository pattern: %v", err)
	}
	return ok()
}

// ValidateTagFilter checks that the tag filter, if set, is a valid glob
func ValidateTagFilter(value string) FormValidation {
	if strings.TrimSpace(value) == "" {
		return ok()
	}
	if _, err := glob.Compile(value); err != nil {
		return failure("Invalid tag filter: %v", err)
	}
	return ok()
}

// ValidateDefaultValue warns when a required parameter has a default value, which is then never
// used, and when an optional parameter has none to fall back to.
func ValidateDefaultValue(defaultValue string, required bool) FormValidation {
	blank := strings.TrimSpace(defaultValue) == ""
	switch {
	case required && !blank:
		return warning("The default value is not used because a value is required")
	case !required && blank:
		return warning("A default value is recommended, it is offered whenever references cannot be listed")
	}
	return ok()
}

// ValidateDefinition runs every field check against def and returns the ones which are not OK
func ValidateDefinition(def v1alpha1.GitParameterDefinition) []FormValidation {
	var results []FormValidation
	add := func(field string, v FormValidation) {
		if v.Kind != KindOK {
			v.Field = field
			results = append(results, v)
		}
	}
	if strings.TrimSpace(def.Name) == "" {
		add("name", failure("Name is required"))
	}
	if !def.Type.IsValid() {
		add("type", failure("Unknown parameter type '%s'", def.Type))
	}
	switch def.GetSortMode() {
	case v1alpha1.SortModeNone, v1alpha1.SortModeAscending, v1alpha1.SortModeDescending, v1alpha1.SortModeAscendingSmart, v1alpha1.SortModeDescendingSmart:
	default:
		add("sortMode", failure("Unknown sort mode '%s'", def.SortMode))
	}
	switch def.GetSelectedValue() {
	case v1alpha1.SelectedValueNone, v1alpha1.SelectedValueTop, v1alpha1.SelectedValueDefault:
	default:
		add("selectedValue", failure("Unknown selected value '%s'", def.SelectedValue))
	}
	if def.ListSize < 0 {
		add("listSize", failure("List size must not be negative"))
	}
	add("branchFilter", ValidateBranchFilter(def.GetBranchFilter()))
	add("tagFilter", ValidateTagFilter(def.TagFilter))
	add("useRepository", ValidateUseRepository(def.UseRepository))
	add("defaultValue", ValidateDefaultValue(def.DefaultValue, def.Required))
	return results
}
