package jobs

import (
	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/common"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/env"
	"github.com/pola/git-parameter-plugin/util/git"
)

// HostView is the uniform view of a job consumed by repository resolution
type HostView struct {
	Job *v1alpha1.Job
	// Bindings are the job's repositories in checkout order
	Bindings []v1alpha1.Binding
	// Workspace is the last build's workspace, empty when there is none on disk
	Workspace   string
	Environment env.Environ
}

// HasWorkspace returns true if the job has a workspace on disk
func (v *HostView) HasWorkspace() bool {
	return v.Workspace != ""
}

// Registry adapts jobs of every kind to a HostView
type Registry struct {
	host          Host
	environ       env.Environ
	maxProxyDepth int
	wrappers      map[v1alpha1.JobKind]Wrapper
	unsupported   Wrapper
}

// NewRegistry returns a registry over host. environ is used for jobs whose last build recorded no
// environment.
func NewRegistry(host Host, environ env.Environ, maxProxyDepth int) *Registry {
	if maxProxyDepth <= 0 {
		maxProxyDepth = common.DefaultMaxProxyDepth
	}
	return &Registry{
		host:          host,
		environ:       environ,
		maxProxyDepth: maxProxyDepth,
		wrappers:      GetWrappers(),
		unsupported:   &unsupportedWrapper{},
	}
}

func (r *Registry) wrapper(kind v1alpha1.JobKind) Wrapper {
	if w, ok := r.wrappers[kind]; ok {
		return w
	}
	return r.unsupported
}

// Adapt returns the view of job, or nil when the job kind is not supported
func (r *Registry) Adapt(job *v1alpha1.Job) *HostView {
	if job == nil {
		return nil
	}
	scms, ok := r.wrapper(job.Kind).SCMs(job)
	if !ok {
		log.WithField("job", job.Name).Debugf("job kind '%s' is not supported", job.Kind)
		return nil
	}
	view := &HostView{
		Job:         job,
		Bindings:    r.flatten(job.Name, scms, map[string]bool{job.Name: true}, 0),
		Environment: r.environment(job),
	}
	if workspace, ok := r.host.LastBuildWorkspace(job); ok {
		view.Workspace = workspace
	}
	return view
}

func (r *Registry) environment(job *v1alpha1.Job) env.Environ {
	base := r.host.LastBuildEnvironment(job)
	if base == nil {
		base = r.environ
	}
	merged := base.Merge()
	for k, v := range job.StringParameterDefaults() {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return merged
}

// flatten walks nested source configurations depth first in declared order. Proxies are followed
// until they revisit a job or exceed the maximum depth.
func (r *Registry) flatten(jobName string, scms []v1alpha1.SCM, visited map[string]bool, depth int) []v1alpha1.Binding {
	var bindings []v1alpha1.Binding
	for _, scm := range scms {
		switch {
		case scm.Git != nil:
			for i, remote := range scm.Git.Remotes {
				name := remote.Name
				if name == "" {
					name = git.RemoteName(i)
				}
				bindings = append(bindings, v1alpha1.Binding{URL: remote.URL, RemoteName: name, SubDir: scm.Git.RelativeTargetDir})
			}
		case len(scm.Multi) > 0:
			bindings = append(bindings, r.flatten(jobName, scm.Multi, visited, depth)...)
		case scm.Proxy != nil:
			bindings = append(bindings, r.followProxy(jobName, scm.Proxy.ProjectName, visited, depth)...)
		}
	}
	return bindings
}

func (r *Registry) followProxy(jobName, target string, visited map[string]bool, depth int) []v1alpha1.Binding {
	logCtx := log.WithFields(log.Fields{"job": jobName, "proxy": target})
	if depth+1 > r.maxProxyDepth {
		logCtx.Warnf("proxy chain is deeper than %d, ignoring it", r.maxProxyDepth)
		return nil
	}
	if visited[target] {
		logCtx.Warn("proxy target was already visited, ignoring it")
		return nil
	}
	job, err := r.host.GetJob(target)
	if err != nil {
		logCtx.Warnf("failed to follow proxy: %v", err)
		return nil
	}
	scms, ok := r.wrapper(job.Kind).SCMs(job)
	if !ok {
		return nil
	}
	visited[target] = true
	return r.flatten(jobName, scms, visited, depth+1)
}
