package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/matzehuels/jarwalk/internal/config"
	"github.com/matzehuels/jarwalk/pkg/buildinfo"
	"github.com/matzehuels/jarwalk/pkg/httputil"
	"github.com/matzehuels/jarwalk/pkg/integrations/mavenrepo"
	"github.com/matzehuels/jarwalk/pkg/maven"
	"github.com/matzehuels/jarwalk/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "jarwalk"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	config      *config.Config
	levelPinned bool
	trace       bool
	tracer      *sdktrace.TracerProvider
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. A level set this way takes
// precedence over log.level from the configuration.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelPinned = true
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "jarwalk resolves Maven coordinates to jar files",
		Long: `jarwalk downloads the jar of a Maven coordinate together with the jars of
its transitive runtime dependencies, reading POMs from a Maven 2 repository
and caching everything in a local directory.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			if c.trace && c.tracer == nil {
				c.tracer = observability.InitTracing(observability.NewLogExporter(c.Logger.Info), buildinfo.Version)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.tracer == nil {
				return nil
			}
			return c.tracer.Shutdown(cmd.Context())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jarwalk/config.toml)")
	root.PersistentFlags().BoolVar(&c.trace, "trace", false, "log a line per traced operation (resolve, visit, download)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once and logs its warnings.
func (c *CLI) loadConfig() error {
	if c.config != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if !c.levelPinned && cfg.Log.Level != "" {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	for _, w := range cfg.Validate() {
		c.Logger.Warn(w)
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Resolver Factory
// =============================================================================

// repoOpts holds the repository flags shared by resolve, fetch and graph.
type repoOpts struct {
	url          string
	localDir     string
	noCache      bool
	refresh      bool
	skipOptional bool
}

func (o *repoOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.url, "repository", "", "remote repository URL (overrides config)")
	cmd.Flags().StringVar(&o.localDir, "local-dir", "", "local repository directory (overrides config)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the metadata cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass cached metadata")
	cmd.Flags().BoolVar(&o.skipOptional, "skip-optional", false, "skip optional dependencies of transitive artifacts")
}

// session bundles the collaborators of one command invocation.
type session struct {
	client   *mavenrepo.Client
	resolver *maven.Resolver
	refresh  bool
}

// newSession wires the repository client, local repository and resolver
// from the loaded config with flag overrides applied.
func (c *CLI) newSession(ctx context.Context, o *repoOpts) (*session, error) {
	cfg := c.config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return nil, err
		}
	}

	baseURL := firstNonEmpty(o.url, cfg.Repository.URL)
	localDir := firstNonEmpty(o.localDir, cfg.Repository.LocalDir)
	logger := loggerFromContext(ctx)

	var cache *httputil.Cache
	if !o.noCache {
		var err error
		if cache, err = httputil.NewCache("", cfg.HTTP.CacheTTL); err != nil {
			logger.Warnf("metadata cache disabled: %v", err)
			cache = nil
		}
	}

	client := mavenrepo.NewClient(baseURL, cache, cfg.HTTP.Timeout)
	client.WithRetry(cfg.HTTP.Retries, time.Second)

	repo := maven.NewRepository(client.BaseURL(), localDir, client, logger)
	opts := maven.Options{SkipOptional: o.skipOptional || cfg.Resolve.SkipOptional}

	return &session{
		client:   client,
		resolver: maven.NewResolver(repo, logger, opts),
		refresh:  o.refresh,
	}, nil
}

// coordinate parses arg and, when it has no version, asks the repository
// metadata for the latest release.
func (s *session) coordinate(ctx context.Context, arg string) (maven.Coordinate, error) {
	coord, err := maven.ParseCoordinate(arg)
	if err != nil {
		return maven.Coordinate{}, err
	}
	if coord.HasVersion() {
		return coord, nil
	}

	version, err := s.client.LatestVersion(ctx, coord.Group(), coord.Artifact(), s.refresh)
	if err != nil {
		return maven.Coordinate{}, err
	}
	loggerFromContext(ctx).Infof("using latest version %s of %s", version, coord)
	return coord.WithVersion(version), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
