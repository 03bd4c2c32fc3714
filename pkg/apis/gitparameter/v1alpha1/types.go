package v1alpha1

import (
	"fmt"
	"strings"
	"time"
)

// ParameterType selects which kind of git reference a parameter offers.
type ParameterType string

const (
	ParameterTypeTag         ParameterType = "PT_TAG"
	ParameterTypeBranch      ParameterType = "PT_BRANCH"
	ParameterTypeBranchTag   ParameterType = "PT_BRANCH_TAG"
	ParameterTypeRevision    ParameterType = "PT_REVISION"
	ParameterTypePullRequest ParameterType = "PT_PULL_REQUEST"
)

// IsValid returns true if the type is one of the known parameter types
func (t ParameterType) IsValid() bool {
	switch t {
	case ParameterTypeTag, ParameterTypeBranch, ParameterTypeBranchTag, ParameterTypeRevision, ParameterTypePullRequest:
		return true
	}
	return false
}

// SortMode controls the ordering of the offered values.
type SortMode string

const (
	SortModeNone            SortMode = "NONE"
	SortModeAscending       SortMode = "ASCENDING"
	SortModeDescending      SortMode = "DESCENDING"
	SortModeAscendingSmart  SortMode = "ASCENDING_SMART"
	SortModeDescendingSmart SortMode = "DESCENDING_SMART"
)

// IsSorting returns true if the mode imposes any ordering
func (m SortMode) IsSorting() bool {
	return m != "" && m != SortModeNone
}

// IsDescending returns true for the descending variants
func (m SortMode) IsDescending() bool {
	return m == SortModeDescending || m == SortModeDescendingSmart
}

// IsSmart returns true for the version aware variants
func (m SortMode) IsSmart() bool {
	return m == SortModeAscendingSmart || m == SortModeDescendingSmart
}

// SelectedValue is the policy deciding which value is preselected.
type SelectedValue string

const (
	SelectedValueNone    SelectedValue = "NONE"
	SelectedValueTop     SelectedValue = "TOP"
	SelectedValueDefault SelectedValue = "DEFAULT"
)

const (
	DefaultBranchFilter = ".*"
	DefaultTagFilter    = "*"
)

// GitParameterDefinition is the declared configuration of a single git parameter on a job.
type GitParameterDefinition struct {
	Name         string        `json:"name"`
	Type         ParameterType `json:"type"`
	DefaultValue string        `json:"defaultValue,omitempty"`
	Description  string        `json:"description,omitempty"`
	// Branch narrows revision listing to the history of a single branch
	Branch        string        `json:"branch,omitempty"`
	BranchFilter  string        `json:"branchFilter,omitempty"`
	TagFilter     string        `json:"tagFilter,omitempty"`
	SortMode      SortMode      `json:"sortMode,omitempty"`
	SelectedValue SelectedValue `json:"selectedValue,omitempty"`
	// UseRepository is a regular expression selecting which of several bound repositories is consulted
	UseRepository      string `json:"useRepository,omitempty"`
	QuickFilterEnabled bool   `json:"quickFilterEnabled,omitempty"`
	// ListSize is a rendering hint, the value list itself is never truncated
	ListSize int  `json:"listSize,omitempty"`
	Required bool `json:"required,omitempty"`
}

// GetBranchFilter returns the branch filter, defaulting to match everything
func (d GitParameterDefinition) GetBranchFilter() string {
	if strings.TrimSpace(d.BranchFilter) == "" {
		return DefaultBranchFilter
	}
	return d.BranchFilter
}

// GetTagFilter returns the tag filter, defaulting to match everything
func (d GitParameterDefinition) GetTagFilter() string {
	if strings.TrimSpace(d.TagFilter) == "" {
		return DefaultTagFilter
	}
	return d.TagFilter
}

// GetSortMode returns the sort mode, defaulting to NONE
func (d GitParameterDefinition) GetSortMode() SortMode {
	if d.SortMode == "" {
		return SortModeNone
	}
	return d.SortMode
}

// GetSelectedValue returns the selected value policy, defaulting to NONE
func (d GitParameterDefinition) GetSelectedValue() SelectedValue {
	if d.SelectedValue == "" {
		return SelectedValueNone
	}
	return d.SelectedValue
}

// WithUseRepository returns a copy of the definition consulting only repositories matching pattern
func (d GitParameterDefinition) WithUseRepository(pattern string) GitParameterDefinition {
	d.UseRepository = pattern
	return d
}

// WithRequired returns a copy of the definition with the required flag overridden
func (d GitParameterDefinition) WithRequired(required bool) GitParameterDefinition {
	d.Required = required
	return d
}

// Binding associates a job with one remote repository. Bindings are created per request.
type Binding struct {
	// URL is the remote URL as configured, possibly holding $VAR placeholders
	URL string `json:"url"`
	// ResolvedURL is URL after placeholder substitution, set by the resolver
	ResolvedURL string `json:"resolvedURL,omitempty"`
	RemoteName  string `json:"remoteName"`
	// SubDir is the checkout directory of the repository inside the workspace
	SubDir string `json:"subDir,omitempty"`
}

// RepoURL returns the resolved URL, falling back to the configured one
func (b Binding) RepoURL() string {
	if b.ResolvedURL != "" {
		return b.ResolvedURL
	}
	return b.URL
}

// RefKind is a single listable reference family. PT_BRANCH_TAG lists two kinds.
type RefKind string

const (
	RefKindBranch      RefKind = "branch"
	RefKindTag         RefKind = "tag"
	RefKindRevision    RefKind = "revision"
	RefKindPullRequest RefKind = "pullRequest"
)

// RefKinds returns the reference families listed for the parameter type, in merge order
func (t ParameterType) RefKinds() []RefKind {
	switch t {
	case ParameterTypeBranch:
		return []RefKind{RefKindBranch}
	case ParameterTypeTag:
		return []RefKind{RefKindTag}
	case ParameterTypeBranchTag:
		return []RefKind{RefKindBranch, RefKindTag}
	case ParameterTypeRevision:
		return []RefKind{RefKindRevision}
	case ParameterTypePullRequest:
		return []RefKind{RefKindPullRequest}
	}
	return nil
}

// RevisionInfo holds commit metadata shown next to revision entries
type RevisionInfo struct {
	Hash    string    `json:"hash"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author"`
	Subject string    `json:"subject"`
}

// RefEntry is one selectable value
type RefEntry struct {
	Value    string        `json:"value"`
	Label    string        `json:"label,omitempty"`
	Revision *RevisionInfo `json:"revision,omitempty"`
}

// Display returns the label when set, the value otherwise
func (e RefEntry) Display() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Value
}

// DiagnosticType represents type of diagnostic. Type name has following convention:
// suffix "Error" means error diagnostic
// suffix "Warning" means warning diagnostic
// suffix "Info" means informational diagnostic
type DiagnosticType = string

const (
	// DiagnosticConfigurationError indicates an invalid use-repository pattern
	DiagnosticConfigurationError = "ConfigurationError"
	// DiagnosticNoRepositoryError indicates no repository binding could be resolved for the job
	DiagnosticNoRepositoryError = "NoRepositoryError"
	// DiagnosticNoRepositoryMatchWarning indicates the use-repository pattern matched no binding
	DiagnosticNoRepositoryMatchWarning = "NoRepositoryMatchWarning"
	// DiagnosticUnresolvedRepositoryWarning indicates a binding was dropped during resolution
	DiagnosticUnresolvedRepositoryWarning = "UnresolvedRepositoryWarning"
	// DiagnosticWorkspaceUnavailableWarning indicates the job has no usable workspace
	DiagnosticWorkspaceUnavailableWarning = "WorkspaceUnavailableWarning"
	// DiagnosticListingWarning indicates references could not be listed
	DiagnosticListingWarning = "ListingWarning"
	// DiagnosticFilterDegradedWarning indicates an invalid filter was skipped
	DiagnosticFilterDegradedWarning = "FilterDegradedWarning"
	// DiagnosticDefaultValueInfo indicates the default value was returned in place of a list
	DiagnosticDefaultValueInfo = "DefaultValueInfo"
	// DiagnosticCheckConfigurationInfo closes a degraded result
	DiagnosticCheckConfigurationInfo = "CheckConfigurationInfo"
)

// DiagnosticStage orders diagnostics by the pipeline stage which produced them
type DiagnosticStage int

const (
	StageWorkspace DiagnosticStage = iota
	StageResolution
	StageFilter
)

func (s DiagnosticStage) String() string {
	switch s {
	case StageWorkspace:
		return "workspace"
	case StageResolution:
		return "resolution"
	case StageFilter:
		return "filter"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Diagnostic is a human readable, single line explanation of a degraded result
type Diagnostic struct {
	Type    DiagnosticType  `json:"type"`
	Stage   DiagnosticStage `json:"-"`
	Message string          `json:"message"`
}

// IsError returns true if the diagnostic is an error
func (d Diagnostic) IsError() bool {
	return strings.HasSuffix(d.Type, "Error")
}

// IsWarning returns true if the diagnostic is a warning
func (d Diagnostic) IsWarning() bool {
	return strings.HasSuffix(d.Type, "Warning")
}

// ResultSet is the ordered value list and diagnostics of a single resolution request
type ResultSet struct {
	Items       []RefEntry   `json:"items"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	// Selected is the preselected value, if any
	Selected string `json:"selected,omitempty"`
}

// Values returns the item values in order
func (r *ResultSet) Values() []string {
	values := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		values = append(values, item.Value)
	}
	return values
}

// Messages returns the diagnostic messages in order
func (r *ResultSet) Messages() []string {
	messages := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		messages = append(messages, d.Message)
	}
	return messages
}

// Contains returns true if any item has the given value
func (r *ResultSet) Contains(value string) bool {
	for _, item := range r.Items {
		if item.Value == value {
			return true
		}
	}
	return false
}

// AcceptedValue is a validated parameter value ready to be handed to a build
type AcceptedValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (v AcceptedValue) String() string {
	return fmt.Sprintf("(GitParameterValue) %s='%s'", v.Name, v.Value)
}
