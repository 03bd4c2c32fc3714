package commands

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cmdutil "github.com/pola/git-parameter-plugin/cmd/util"
	"github.com/pola/git-parameter-plugin/common"
	"github.com/pola/git-parameter-plugin/gitparameter"
	"github.com/pola/git-parameter-plugin/gitparameter/jobs"
	"github.com/pola/git-parameter-plugin/gitparameter/lister"
	"github.com/pola/git-parameter-plugin/gitparameter/metrics"
	"github.com/pola/git-parameter-plugin/util/cli"
	"github.com/pola/git-parameter-plugin/util/config"
	"github.com/pola/git-parameter-plugin/util/env"
	"github.com/pola/git-parameter-plugin/util/git"
)

const (
	// cliName is the name of the CLI
	cliName = "git-parameter"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	catalogue        string
	envFile          string
	timeout          time.Duration
	maxProxyDepth    int
	maxRevisions     int
	parallelismLimit int64
	// clientFactory overrides the go-git backed factory
	clientFactory git.ClientFactory
}

// serviceSet holds the collaborators built from rootOptions for a single command run
type serviceSet struct {
	host    *jobs.StaticHost
	service *gitparameter.Service
	metrics *metrics.MetricsServer
}

// NewCommand returns a new instance of the git-parameter command
func NewCommand() *cobra.Command {
	var opts rootOptions
	command := &cobra.Command{
		Use:   cliName,
		Short: "git-parameter lists git references as build parameter values",
		Run: func(c *cobra.Command, args []string) {
			c.HelpFunc()(c, args)
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	addRootFlags(command, &opts)

	command.AddCommand(NewListCommand(&opts))
	command.AddCommand(NewValidateCommand(&opts))
	command.AddCommand(NewCreateValueCommand(&opts))
	command.AddCommand(NewServeCommand(&opts))
	command.AddCommand(cli.NewVersionCmd(cliName))
	return command
}

// NewServerCommand returns the serve command as a standalone git-parameter-server command
func NewServerCommand() *cobra.Command {
	var opts rootOptions
	command := NewServeCommand(&opts)
	command.Use = cliName + "-server"
	addRootFlags(command, &opts)
	return command
}

func addRootFlags(command *cobra.Command, opts *rootOptions) {
	setupLogging := cli.AddLogFlagsToCmd(command, &cmdutil.LogFormat, &cmdutil.LogLevel)
	command.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return setupLogging()
	}
	command.PersistentFlags().StringVar(&opts.catalogue, "catalogue", config.GetFlag("catalogue", env.StringFromEnv(common.EnvCatalogue, "")), "Path to the YAML or JSON job catalogue")
	command.PersistentFlags().StringVar(&opts.envFile, "env-file", config.GetFlag("env-file", ""), "Dotenv file overlaid on the process environment for URL substitution")
	command.PersistentFlags().DurationVar(&opts.timeout, "timeout", env.ParseDurationFromEnv(common.EnvTimeout, common.DefaultTimeout, 0, time.Hour), "Bound of a single value list request, 0 for none")
	command.PersistentFlags().IntVar(&opts.maxProxyDepth, "max-proxy-depth", env.ParseNumFromEnv(common.EnvMaxProxyDepth, common.DefaultMaxProxyDepth, 1, math.MaxInt32), "Maximum number of proxy SCM hops followed")
	command.PersistentFlags().Int64Var(&opts.parallelismLimit, "parallelismlimit", int64(env.ParseNumFromEnv(common.EnvParallelismLimit, 0, 0, math.MaxInt32)), "Limit on number of concurrent remote listings. Any value less the 1 means no limit.")
	command.PersistentFlags().IntVar(&opts.maxRevisions, "max-revisions", env.ParseNumFromEnv(common.EnvMaxRevisions, common.DefaultMaxRevisions, 1, math.MaxInt32), "Maximum number of revisions listed")
}

// environ returns the process environment overlaid by the env file, if any
func (o *rootOptions) environ() (env.Environ, error) {
	environ := env.FromOS()
	if o.envFile == "" {
		return environ, nil
	}
	overrides, err := godotenv.Read(o.envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", o.envFile, err)
	}
	return environ.Merge(overrides), nil
}

func (o *rootOptions) newServiceSet() (*serviceSet, error) {
	if o.catalogue == "" {
		return nil, fmt.Errorf("a job catalogue is required, use --catalogue or %s", common.EnvCatalogue)
	}
	host, err := jobs.LoadCatalogue(o.catalogue)
	if err != nil {
		return nil, err
	}
	environ, err := o.environ()
	if err != nil {
		return nil, err
	}
	clientFactory := o.clientFactory
	if clientFactory == nil {
		clientFactory = git.NewFactory()
	}
	metricsServer := metrics.NewMetricsServer(clientFactory)
	registry := jobs.NewRegistry(host, environ, o.maxProxyDepth)
	return &serviceSet{
		host:    host,
		service: gitparameter.NewService(host, registry, lister.NewLister(metricsServer, o.maxRevisions).WithParallelismLimit(o.parallelismLimit), metricsServer),
		metrics: metricsServer,
	}, nil
}

func (o *rootOptions) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}
