package common

import "time"

// Environment variables for tuning and logging
const (
	// EnvLogFormat log format that is defined by `--logformat` option
	EnvLogFormat = "GIT_PARAMETER_LOG_FORMAT"
	// EnvLogLevel log level that is defined by `--loglevel` option
	EnvLogLevel = "GIT_PARAMETER_LOG_LEVEL"
	// EnvLogFormatEnableFullTimestamp enables the FullTimestamp option in logs
	EnvLogFormatEnableFullTimestamp = "GIT_PARAMETER_LOG_FORMAT_ENABLE_FULL_TIMESTAMP"
	// EnvMaxProxyDepth bounds how many proxy SCM hops are followed before giving up
	EnvMaxProxyDepth = "GIT_PARAMETER_MAX_PROXY_DEPTH"
	// EnvMaxRevisions bounds the number of revisions listed for PT_REVISION parameters
	EnvMaxRevisions = "GIT_PARAMETER_MAX_REVISIONS"
	// EnvOpts holds additional default command line flags
	EnvOpts = "GIT_PARAMETER_OPTS"
	// EnvCatalogue is the path of the job catalogue, overridden by `--catalogue`
	EnvCatalogue = "GIT_PARAMETER_CATALOGUE"
	// EnvTimeout bounds a single value list request, overridden by `--timeout`
	EnvTimeout = "GIT_PARAMETER_TIMEOUT"
	// EnvParallelismLimit bounds concurrent remote listings, overridden by `--parallelismlimit`
	EnvParallelismLimit = "GIT_PARAMETER_PARALLELISM_LIMIT"
	// EnvBinaryName overrides the binary name used to pick the entry command
	EnvBinaryName = "GIT_PARAMETER_BINARY_NAME"
)

const (
	// DefaultMaxProxyDepth is the default number of proxy SCM hops followed
	DefaultMaxProxyDepth = 10
	// DefaultMaxRevisions is the default number of revisions listed
	DefaultMaxRevisions = 1000
	// DefaultRemoteName is the remote name given to the first remote of a checkout
	DefaultRemoteName = "origin"
	// DefaultTimeout is the default bound of a single value list request
	DefaultTimeout = 30 * time.Second
	// DefaultPortServer is the default port of `git-parameter serve`
	DefaultPortServer = 8085
)

// Messages shown to users next to a degraded value list
const (
	MessageDefaultValueReturned  = "The default value has been returned"
	MessageNoRepositoryConfigured = "No Git repository configured in SCM configuration or plugin is configured wrong"
	MessageCheckConfiguration    = "Please check the configuration"
)
