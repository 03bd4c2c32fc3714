package filter

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/glob"
	"github.com/pola/git-parameter-plugin/util/regex"
)

// Apply filters and sorts the entries listed for one reference kind according to def
func Apply(kind v1alpha1.RefKind, entries []v1alpha1.RefEntry, def v1alpha1.GitParameterDefinition) ([]v1alpha1.RefEntry, []v1alpha1.Diagnostic) {
	var diagnostics []v1alpha1.Diagnostic
	switch kind {
	case v1alpha1.RefKindBranch:
		entries, diagnostics = Branches(entries, def.GetBranchFilter())
	case v1alpha1.RefKindTag:
		entries, diagnostics = Tags(entries, def.GetTagFilter())
	}
	return Sort(entries, def.GetSortMode()), diagnostics
}

// Branches keeps the entries whose full name matches pattern. When the pattern has exactly one
// capturing group the captured text replaces the name. An invalid pattern keeps every entry.
func Branches(entries []v1alpha1.RefEntry, pattern string) ([]v1alpha1.RefEntry, []v1alpha1.Diagnostic) {
	if strings.TrimSpace(pattern) == "" {
		pattern = v1alpha1.DefaultBranchFilter
	}
	re, err := regex.Compile(pattern)
	if err != nil {
		log.Warnf("ignoring branch filter: %v", err)
		return entries, []v1alpha1.Diagnostic{degraded("branch", pattern, err)}
	}
	capture := re.NumGroups() == 1
	filtered := make([]v1alpha1.RefEntry, 0, len(entries))
	for _, entry := range entries {
		ok, groups := re.MatchFull(entry.Value)
		if !ok {
			log.Debugf("branch %s does not match %s", entry.Value, pattern)
			continue
		}
		if capture {
			entry = v1alpha1.RefEntry{Value: groups[0]}
		}
		filtered = append(filtered, entry)
	}
	return filtered, nil
}

// Tags keeps the entries matching the glob pattern. An invalid pattern keeps every entry.
func Tags(entries []v1alpha1.RefEntry, pattern string) ([]v1alpha1.RefEntry, []v1alpha1.Diagnostic) {
	if strings.TrimSpace(pattern) == "" || pattern == glob.MatchAll {
		return entries, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		log.Warnf("ignoring tag filter %s: %v", pattern, err)
		return entries, []v1alpha1.Diagnostic{degraded("tag", pattern, err)}
	}
	filtered := make([]v1alpha1.RefEntry, 0, len(entries))
	for _, entry := range entries {
		if g.Match(entry.Value) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

func degraded(kind, pattern string, err error) v1alpha1.Diagnostic {
	return v1alpha1.Diagnostic{
		Type:    v1alpha1.DiagnosticFilterDegradedWarning,
		Stage:   v1alpha1.StageFilter,
		Message: fmt.Sprintf("Invalid %s filter '%s' was ignored: %v", kind, pattern, err),
	}
}
