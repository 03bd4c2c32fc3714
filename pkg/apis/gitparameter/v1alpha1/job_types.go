package v1alpha1

// JobKind is the variant tag of a host job
type JobKind string

const (
	JobKindFreeStyle JobKind = "FreeStyle"
	JobKindMatrix    JobKind = "Matrix"
	JobKindWorkflow  JobKind = "Workflow"
)

// Job is a host build-orchestrator job as far as git parameters are concerned.
type Job struct {
	// Name is the full name of the job, including folders (e.g. folder/job1)
	Name string  `json:"name"`
	Kind JobKind `json:"kind"`
	// SCM is the source configuration of FreeStyle and Matrix jobs
	SCM *SCM `json:"scm,omitempty"`
	// Definition is the pipeline definition of Workflow jobs
	Definition *FlowDefinition       `json:"definition,omitempty"`
	Parameters []ParameterDefinition `json:"parameters,omitempty"`
	LastBuild  *Build                `json:"lastBuild,omitempty"`
}

// GitParameter returns the git parameter definition with the given name
func (j *Job) GitParameter(name string) (*GitParameterDefinition, bool) {
	for i := range j.Parameters {
		if p := j.Parameters[i].Git; p != nil && p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// StringParameterDefaults returns the defaults of the job's plain string parameters
func (j *Job) StringParameterDefaults() map[string]string {
	defaults := make(map[string]string)
	for _, p := range j.Parameters {
		if p.String != nil {
			defaults[p.String.Name] = p.String.DefaultValue
		}
	}
	return defaults
}

// ParameterDefinition holds exactly one of the supported parameter kinds
type ParameterDefinition struct {
	Git    *GitParameterDefinition    `json:"git,omitempty"`
	String *StringParameterDefinition `json:"string,omitempty"`
}

// StringParameterDefinition is a plain text parameter. Its default is visible to URL substitution.
type StringParameterDefinition struct {
	Name         string `json:"name"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Description  string `json:"description,omitempty"`
}

// SCM holds exactly one source configuration variant.
type SCM struct {
	Git *GitSCM `json:"git,omitempty"`
	// Multi aggregates several independent source configurations, checked out in declared order
	Multi []SCM `json:"multi,omitempty"`
	// Proxy reuses the source configuration of another job
	Proxy *ProxySCM `json:"proxy,omitempty"`
}

// GitSCM is a git checkout of one or more remotes
type GitSCM struct {
	Remotes []UserRemoteConfig `json:"remotes"`
	// RelativeTargetDir is the checkout subdirectory inside the workspace
	RelativeTargetDir string `json:"relativeTargetDir,omitempty"`
}

// UserRemoteConfig is a single configured remote
type UserRemoteConfig struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

// ProxySCM points at the job whose source configuration is used
type ProxySCM struct {
	ProjectName string `json:"projectName"`
}

// FlowDefinition is a pipeline definition: either an inline script or a script loaded from an SCM
type FlowDefinition struct {
	Script     string `json:"script,omitempty"`
	SCM        *SCM   `json:"scm,omitempty"`
	ScriptPath string `json:"scriptPath,omitempty"`
}

// Build is the last recorded run of a job
type Build struct {
	Number      int               `json:"number"`
	Workspace   string            `json:"workspace,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
	// SCMs are the checkouts performed by the run, recorded for pipeline jobs
	SCMs []SCM `json:"scms,omitempty"`
}
