package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jarwalk/pkg/metrics"
	"github.com/matzehuels/jarwalk/pkg/observability"
)

type resolveOpts struct {
	repoOpts
	format      string
	output      string
	classpath   bool
	noDeps      bool
	metricsFile string
	strict      bool
}

func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "resolve <groupId:artifactId[:version]>",
		Short: "Download a jar and its transitive runtime dependencies",
		Long: `Download the jar of a Maven coordinate and the jars of its transitive
compile and runtime dependencies, then print their local paths.

Without a version, the latest release listed in maven-metadata.xml is used.

Examples:
  jarwalk resolve org.slf4j:slf4j-api:2.0.9
  jarwalk resolve com.google.guava:guava --classpath
  jarwalk resolve org.apache.commons:commons-lang3:3.14.0 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, &opts, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json or toml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.classpath, "classpath", false, "print a single class path instead of one jar per line (text format)")
	cmd.Flags().BoolVar(&opts.noDeps, "no-deps", false, "download only the root jar")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a dependency version cannot be resolved")

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, opts *resolveOpts, arg string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	ui := printer{w: cmd.ErrOrStderr()}
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	var collector *metrics.Collector
	if opts.metricsFile != "" {
		collector = metrics.New()
		collector.Install()
		defer observability.Reset()
	}

	s, err := c.newSession(ctx, &opts.repoOpts)
	if err != nil {
		return err
	}
	root, err := s.coordinate(ctx, arg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var spinner *Spinner
	if logger.GetLevel() > log.DebugLevel && isTerminal(cmd.ErrOrStderr()) {
		spinner = newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Resolving %s...", root))
		spinner.Start()
	}
	res, err := s.resolver.Resolve(ctx, root, !opts.noDeps)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d jars for %s", len(res.Artifacts), root))
	if n := len(res.Skipped); n > 0 {
		ui.warning("%d dependencies skipped", n)
		for _, sk := range res.Unresolved() {
			ui.detail("%s (from %s): %s", sk.Dependency, sk.From, sk.Reason)
		}
	}

	w, closeOut, err := openOutput(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}
	if err := writeReport(w, res, opts.format, opts.classpath); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if opts.output != "" {
		ui.success("Wrote %s report", opts.format)
		ui.file(opts.output)
	}

	if collector != nil {
		if err := collector.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Debugf("wrote metrics to %s", opts.metricsFile)
	}
	if opts.strict {
		return res.CheckUnresolved()
	}
	return nil
}
