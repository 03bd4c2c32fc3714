package resolver

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/common"
	"github.com/pola/git-parameter-plugin/gitparameter/jobs"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/git"
	"github.com/pola/git-parameter-plugin/util/regex"
)

// Resolve substitutes placeholders in the bindings of view and selects the ones to consult. With no
// use-repository pattern only the first usable binding is returned. An invalid pattern is reported
// as a ConfigurationError.
func Resolve(view *jobs.HostView, useRepository string) ([]v1alpha1.Binding, []v1alpha1.Diagnostic, error) {
	var pattern *regex.Pattern
	if strings.TrimSpace(useRepository) != "" {
		var err error
		pattern, err = regex.Compile(useRepository)
		if err != nil {
			return nil, nil, NewConfigurationError(useRepository, err)
		}
	}

	resolved, diagnostics := substitute(view)
	if len(resolved) == 0 {
		return nil, append(diagnostics, v1alpha1.Diagnostic{
			Type:    v1alpha1.DiagnosticNoRepositoryError,
			Stage:   v1alpha1.StageResolution,
			Message: common.MessageNoRepositoryConfigured,
		}), nil
	}

	if pattern == nil {
		return resolved[:1], diagnostics, nil
	}
	var selected []v1alpha1.Binding
	for _, b := range resolved {
		if pattern.Find(b.ResolvedURL) {
			selected = append(selected, b)
		}
	}
	if len(selected) == 0 {
		diagnostics = append(diagnostics, v1alpha1.Diagnostic{
			Type:    v1alpha1.DiagnosticNoRepositoryMatchWarning,
			Stage:   v1alpha1.StageResolution,
			Message: fmt.Sprintf("No repository matches use-repository pattern '%s'", useRepository),
		})
	}
	return selected, diagnostics, nil
}

func substitute(view *jobs.HostView) ([]v1alpha1.Binding, []v1alpha1.Diagnostic) {
	if view == nil {
		return nil, nil
	}
	logCtx := log.WithField("job", view.Job.Name)
	var resolved []v1alpha1.Binding
	var diagnostics []v1alpha1.Diagnostic
	drop := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		logCtx.Warn(msg)
		diagnostics = append(diagnostics, v1alpha1.Diagnostic{
			Type:    v1alpha1.DiagnosticUnresolvedRepositoryWarning,
			Stage:   v1alpha1.StageResolution,
			Message: msg,
		})
	}
	for _, b := range view.Bindings {
		if strings.TrimSpace(b.URL) == "" {
			drop("Remote '%s' has no repository URL", b.RemoteName)
			continue
		}
		url, missing := view.Environment.Envsubst(b.URL)
		if len(missing) > 0 {
			drop("Repository URL '%s' has unresolved variables: %s", b.URL, strings.Join(missing, ", "))
			continue
		}
		if err := git.ValidateURL(url); err != nil {
			drop("Repository URL '%s' is not valid: %v", url, err)
			continue
		}
		b.ResolvedURL = strings.TrimSpace(url)
		resolved = append(resolved, b)
	}
	return resolved, diagnostics
}
