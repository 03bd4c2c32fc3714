package jobs

import (
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
)

// Wrapper extracts the top level source configurations of one kind of job
type Wrapper interface {
	// SCMs returns the source configurations of the job. ok is false when the job cannot carry any.
	SCMs(job *v1alpha1.Job) (scms []v1alpha1.SCM, ok bool)
}

// scmJobWrapper serves FreeStyle and Matrix jobs, both of which hold a single SCM
type scmJobWrapper struct{}

var _ Wrapper = (*scmJobWrapper)(nil)

func (w *scmJobWrapper) SCMs(job *v1alpha1.Job) ([]v1alpha1.SCM, bool) {
	if job.SCM == nil {
		return nil, true
	}
	return []v1alpha1.SCM{*job.SCM}, true
}

// workflowJobWrapper serves pipeline jobs. The SCM a script is loaded from wins, then the checkouts
// the last build recorded, then checkout directives found in an inline script.
type workflowJobWrapper struct{}

var _ Wrapper = (*workflowJobWrapper)(nil)

func (w *workflowJobWrapper) SCMs(job *v1alpha1.Job) ([]v1alpha1.SCM, bool) {
	if def := job.Definition; def != nil && def.SCM != nil {
		return []v1alpha1.SCM{*def.SCM}, true
	}
	if job.LastBuild != nil && len(job.LastBuild.SCMs) > 0 {
		return job.LastBuild.SCMs, true
	}
	if job.Definition == nil {
		return nil, true
	}
	return ScanScript(job.Definition.Script), true
}

// unsupportedWrapper serves every job kind which is not known
type unsupportedWrapper struct{}

var _ Wrapper = (*unsupportedWrapper)(nil)

func (w *unsupportedWrapper) SCMs(_ *v1alpha1.Job) ([]v1alpha1.SCM, bool) {
	return nil, false
}

// GetWrappers returns the wrapper of every supported job kind
func GetWrappers() map[v1alpha1.JobKind]Wrapper {
	scmJob := &scmJobWrapper{}
	return map[v1alpha1.JobKind]Wrapper{
		v1alpha1.JobKindFreeStyle: scmJob,
		v1alpha1.JobKindMatrix:    scmJob,
		v1alpha1.JobKindWorkflow:  &workflowJobWrapper{},
	}
}
