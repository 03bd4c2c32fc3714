package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pola/git-parameter-plugin/util/git"
)

type MetricsServer struct {
	handler             http.Handler
	gitRequestCounter   *prometheus.CounterVec
	gitRequestHistogram *prometheus.HistogramVec
	resolutionCounter   *prometheus.CounterVec
	diagnosticCounter   *prometheus.CounterVec
	submissionCounter   *prometheus.CounterVec
	clientFactory       git.ClientFactory
}

type GitRequestType string

const (
	GitRequestTypeLsRemote       GitRequestType = "ls-remote"
	GitRequestTypeLsBranches     GitRequestType = "ls-branches"
	GitRequestTypeLsTags         GitRequestType = "ls-tags"
	GitRequestTypeLsRevisions    GitRequestType = "ls-revisions"
	GitRequestTypeLsPullRequests GitRequestType = "ls-pull-requests"
)

// ResolutionOutcome classifies a finished resolution request
type ResolutionOutcome string

const (
	// ResolutionListed means references were listed
	ResolutionListed ResolutionOutcome = "listed"
	// ResolutionDefaulted means the default value was returned in place of a list
	ResolutionDefaulted ResolutionOutcome = "defaulted"
)

// NewMetricsServer returns a new prometheus server which collects git parameter metrics
func NewMetricsServer(clientFactory git.ClientFactory) *MetricsServer {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())

	gitRequestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "git_parameter_git_request_total",
			Help: "Number of git requests performed while listing references",
		},
		[]string{"repo", "request_type"},
	)
	registry.MustRegister(gitRequestCounter)

	gitRequestHistogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "git_parameter_git_request_duration_seconds",
			Help:    "Git requests duration seconds.",
			Buckets: []float64{0.1, 0.25, .5, 1, 2, 4, 10, 20},
		},
		[]string{"repo", "request_type"},
	)
	registry.MustRegister(gitRequestHistogram)

	resolutionCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "git_parameter_resolution_total",
			Help: "Number of value list resolutions",
		},
		[]string{"job", "outcome"},
	)
	registry.MustRegister(resolutionCounter)

	diagnosticCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "git_parameter_diagnostic_total",
			Help: "Number of diagnostics attached to value lists",
		},
		[]string{"type"},
	)
	registry.MustRegister(diagnosticCounter)

	submissionCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "git_parameter_submission_total",
			Help: "Number of submitted parameter values by final state",
		},
		[]string{"state"},
	)
	registry.MustRegister(submissionCounter)

	return &MetricsServer{
		clientFactory:       clientFactory,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		gitRequestCounter:   gitRequestCounter,
		gitRequestHistogram: gitRequestHistogram,
		resolutionCounter:   resolutionCounter,
		diagnosticCounter:   diagnosticCounter,
		submissionCounter:   submissionCounter,
	}
}

func (m *MetricsServer) GetHandler() http.Handler {
	return m.handler
}

// IncGitRequest increments the git requests counter
func (m *MetricsServer) IncGitRequest(repo string, requestType GitRequestType) {
	m.gitRequestCounter.WithLabelValues(repo, string(requestType)).Inc()
}

// ObserveGitRequestDuration records the duration of a git request
func (m *MetricsServer) ObserveGitRequestDuration(repo string, requestType GitRequestType, duration time.Duration) {
	m.gitRequestHistogram.WithLabelValues(repo, string(requestType)).Observe(duration.Seconds())
}

// IncResolution increments the resolution counter
func (m *MetricsServer) IncResolution(job string, outcome ResolutionOutcome) {
	m.resolutionCounter.WithLabelValues(job, string(outcome)).Inc()
}

// IncDiagnostic increments the diagnostic counter
func (m *MetricsServer) IncDiagnostic(diagnosticType string) {
	m.diagnosticCounter.WithLabelValues(diagnosticType).Inc()
}

// IncSubmission increments the submission counter
func (m *MetricsServer) IncSubmission(state string) {
	m.submissionCounter.WithLabelValues(state).Inc()
}

// NewClient returns a client of the wrapped factory which records its git requests
func (m *MetricsServer) NewClient(repoURL string, root string) (git.Client, error) {
	client, err := m.clientFactory.NewClient(repoURL, root)
	if err != nil {
		return nil, err
	}
	return WrapGitClient(repoURL, m, client), nil
}

var _ git.ClientFactory = (*MetricsServer)(nil)

// ResolutionCounter returns the resolution counter
func (m *MetricsServer) ResolutionCounter() *prometheus.CounterVec {
	return m.resolutionCounter
}

// SubmissionCounter returns the submission counter
func (m *MetricsServer) SubmissionCounter() *prometheus.CounterVec {
	return m.submissionCounter
}
