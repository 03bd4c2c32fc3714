package gitparameter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/gitparameter/assembler"
	"github.com/pola/git-parameter-plugin/gitparameter/filter"
	"github.com/pola/git-parameter-plugin/gitparameter/jobs"
	"github.com/pola/git-parameter-plugin/gitparameter/lister"
	"github.com/pola/git-parameter-plugin/gitparameter/metrics"
	"github.com/pola/git-parameter-plugin/gitparameter/resolver"
	"github.com/pola/git-parameter-plugin/gitparameter/validation"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
)

// Service fills the value lists of git parameters. Every call is an independent request: nothing is
// cached between calls and the definition is never modified.
type Service struct {
	host     jobs.Host
	registry *jobs.Registry
	lister   *lister.Lister
	metrics  *metrics.MetricsServer
}

// NewService returns a service. metricsServer may be nil.
func NewService(host jobs.Host, registry *jobs.Registry, lister *lister.Lister, metricsServer *metrics.MetricsServer) *Service {
	return &Service{
		host:     host,
		registry: registry,
		lister:   lister,
		metrics:  metricsServer,
	}
}

// Definition returns the job and its git parameter definition named paramName
func (s *Service) Definition(jobName, paramName string) (*v1alpha1.Job, *v1alpha1.GitParameterDefinition, error) {
	job, err := s.host.GetJob(jobName)
	if err != nil {
		return nil, nil, err
	}
	def, ok := job.GitParameter(paramName)
	if !ok {
		return nil, nil, &ParameterNotFoundError{Job: jobName, Parameter: paramName}
	}
	return job, def, nil
}

// FillValueItems returns the value list of the git parameter paramName of job jobName. An error is
// only returned when the job or the parameter does not exist.
func (s *Service) FillValueItems(ctx context.Context, jobName, paramName string) (*v1alpha1.ResultSet, error) {
	job, def, err := s.Definition(jobName, paramName)
	if err != nil {
		return nil, err
	}
	return s.FillValueItemsFor(ctx, job, *def), nil
}

// FillValueItemsFor returns the value list of def evaluated against job. The result is never empty.
func (s *Service) FillValueItemsFor(ctx context.Context, job *v1alpha1.Job, def v1alpha1.GitParameterDefinition) *v1alpha1.ResultSet {
	logCtx := log.WithFields(log.Fields{
		"job":       job.Name,
		"parameter": def.Name,
		"request":   uuid.NewString(),
	})

	view := s.registry.Adapt(job)
	workspace := ""
	if view != nil {
		workspace = view.Workspace
	}

	bindings, diagnostics, err := resolver.Resolve(view, def.UseRepository)
	if err != nil {
		logCtx.Warnf("failed to resolve repositories: %v", err)
		diagnostics = append(diagnostics, v1alpha1.Diagnostic{
			Type:    v1alpha1.DiagnosticConfigurationError,
			Stage:   v1alpha1.StageResolution,
			Message: err.Error(),
		})
	}

	kinds := def.Type.RefKinds()
	if kinds == nil {
		diagnostics = append(diagnostics, v1alpha1.Diagnostic{
			Type:    v1alpha1.DiagnosticConfigurationError,
			Stage:   v1alpha1.StageResolution,
			Message: fmt.Sprintf("Unknown parameter type '%s'", def.Type),
		})
	}

	groups := make([][]v1alpha1.RefEntry, 0, len(kinds))
	for _, kind := range kinds {
		var entries []v1alpha1.RefEntry
		for _, binding := range bindings {
			logCtx.WithField("repo", binding.RepoURL()).Debugf("listing %s references", kind)
			listed, listDiagnostics := s.lister.List(ctx, kind, binding, workspace, def.Branch)
			entries = append(entries, listed...)
			diagnostics = append(diagnostics, listDiagnostics...)
		}
		filtered, filterDiagnostics := filter.Apply(kind, entries, def)
		diagnostics = append(diagnostics, filterDiagnostics...)
		groups = append(groups, filtered)
	}

	result := assembler.Assemble(def, groups, diagnostics)
	s.observe(logCtx, job.Name, result)
	return result
}

func (s *Service) observe(logCtx *log.Entry, jobName string, result *v1alpha1.ResultSet) {
	outcome := metrics.ResolutionListed
	if len(result.Diagnostics) > 0 && result.Diagnostics[0].Type == v1alpha1.DiagnosticDefaultValueInfo {
		outcome = metrics.ResolutionDefaulted
		logCtx.Warnf("returning default value: %s", strings.Join(result.Messages(), "; "))
	} else {
		logCtx.Debugf("listed %d values", len(result.Items))
	}
	if s.metrics == nil {
		return
	}
	s.metrics.IncResolution(jobName, outcome)
	for _, d := range result.Diagnostics {
		s.metrics.IncDiagnostic(d.Type)
	}
}

// DefaultParameterValue returns the configured default. Without one, a TOP selection policy yields
// the first listed value.
func (s *Service) DefaultParameterValue(ctx context.Context, job *v1alpha1.Job, def v1alpha1.GitParameterDefinition) v1alpha1.AcceptedValue {
	if strings.TrimSpace(def.DefaultValue) != "" || def.GetSelectedValue() != v1alpha1.SelectedValueTop {
		return v1alpha1.AcceptedValue{Name: def.Name, Value: def.DefaultValue}
	}
	result := s.FillValueItemsFor(ctx, job, def)
	return v1alpha1.AcceptedValue{Name: def.Name, Value: result.Selected}
}

// Validator returns the validator of def whose default is DefaultParameterValue
func (s *Service) Validator(ctx context.Context, job *v1alpha1.Job, def v1alpha1.GitParameterDefinition) *validation.Validator {
	return validation.NewValidator(def, func() v1alpha1.AcceptedValue {
		return s.DefaultParameterValue(ctx, job, def)
	})
}

// RecordSubmission counts a submitted value by its outcome
func (s *Service) RecordSubmission(err error) {
	if s.metrics == nil {
		return
	}
	state := validation.StateAccepted
	if err != nil {
		state = validation.StateRejected
	}
	s.metrics.IncSubmission(string(state))
}
