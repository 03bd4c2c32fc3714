package jobs

import (
	"errors"
	"fmt"
	"os"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/config"
	"github.com/pola/git-parameter-plugin/util/env"
)

// Host is the build orchestrator owning the jobs. Implementations must be safe for concurrent use.
type Host interface {
	// GetJob returns the job with the given full name, or a JobNotFoundError
	GetJob(name string) (*v1alpha1.Job, error)
	// LastBuildWorkspace returns the workspace of the job's last build if it exists on disk
	LastBuildWorkspace(job *v1alpha1.Job) (string, bool)
	// LastBuildEnvironment returns the environment of the job's last build, nil when it never ran
	LastBuildEnvironment(job *v1alpha1.Job) env.Environ
}

// JobNotFoundError is returned when a host has no job with the requested name
type JobNotFoundError struct {
	Name string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job '%s' not found", e.Name)
}

// IsJobNotFound returns true if err is a JobNotFoundError
func IsJobNotFound(err error) bool {
	var notFound *JobNotFoundError
	return errors.As(err, &notFound)
}

// Catalogue is the on-disk description of the jobs served by a StaticHost
type Catalogue struct {
	Jobs []v1alpha1.Job `json:"jobs"`
}

// StaticHost is a Host over a fixed set of jobs
type StaticHost struct {
	jobs map[string]*v1alpha1.Job
	// names keeps declaration order for listing
	names []string
}

var _ Host = (*StaticHost)(nil)

func NewStaticHost(jobs ...v1alpha1.Job) (*StaticHost, error) {
	h := &StaticHost{jobs: make(map[string]*v1alpha1.Job, len(jobs))}
	for i := range jobs {
		job := jobs[i]
		if job.Name == "" {
			return nil, fmt.Errorf("job #%d has no name", i)
		}
		if _, ok := h.jobs[job.Name]; ok {
			return nil, fmt.Errorf("duplicate job '%s'", job.Name)
		}
		h.jobs[job.Name] = &job
		h.names = append(h.names, job.Name)
	}
	return h, nil
}

// LoadCatalogue reads a YAML or JSON job catalogue from path
func LoadCatalogue(path string) (*StaticHost, error) {
	var catalogue Catalogue
	if err := config.UnmarshalLocalFile(path, &catalogue); err != nil {
		return nil, fmt.Errorf("failed to read job catalogue %s: %w", path, err)
	}
	return NewStaticHost(catalogue.Jobs...)
}

// Names returns the job names in declaration order
func (h *StaticHost) Names() []string {
	return append([]string(nil), h.names...)
}

func (h *StaticHost) GetJob(name string) (*v1alpha1.Job, error) {
	job, ok := h.jobs[name]
	if !ok {
		return nil, &JobNotFoundError{Name: name}
	}
	return job, nil
}

func (h *StaticHost) LastBuildWorkspace(job *v1alpha1.Job) (string, bool) {
	if job == nil || job.LastBuild == nil || job.LastBuild.Workspace == "" {
		return "", false
	}
	info, err := os.Stat(job.LastBuild.Workspace)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return job.LastBuild.Workspace, true
}

func (h *StaticHost) LastBuildEnvironment(job *v1alpha1.Job) env.Environ {
	if job == nil || job.LastBuild == nil || job.LastBuild.Environment == nil {
		return nil
	}
	return env.Environ(job.LastBuild.Environment).Merge()
}
