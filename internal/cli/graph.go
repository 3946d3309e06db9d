package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jarwalk/pkg/deptree"
)

const (
	graphDOT = "dot"
	graphSVG = "svg"
)

type graphOpts struct {
	repoOpts
	format   string
	output   string
	detailed bool
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: graphDOT}

	cmd := &cobra.Command{
		Use:   "graph <groupId:artifactId[:version]>",
		Short: "Write the dependency graph of a coordinate as DOT or SVG",
		Long: `Resolve a coordinate and write the dependency graph the walker explored.

Missing descriptors are drawn dashed, non-jar packagings as notes, and edges
carry their scope when it is not compile.

Examples:
  jarwalk graph org.slf4j:slf4j-simple:2.0.9 > deps.dot
  jarwalk graph com.google.guava:guava:33.0.0-jre --format svg -o guava.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, &opts, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include packaging and jar path in node labels")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, opts *graphOpts, arg string) error {
	if opts.format != graphDOT && opts.format != graphSVG {
		return fmt.Errorf("unknown graph format %q (want %s or %s)", opts.format, graphDOT, graphSVG)
	}
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := c.newSession(ctx, &opts.repoOpts)
	if err != nil {
		return err
	}
	root, err := s.coordinate(ctx, arg)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := s.resolver.Resolve(ctx, root, true)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d nodes, %d edges", res.Graph.NodeCount(), res.Graph.EdgeCount()))

	data := []byte(deptree.ToDOT(res.Graph, deptree.Options{Detailed: opts.detailed}))
	if opts.format == graphSVG {
		if data, err = deptree.RenderSVG(ctx, string(data)); err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	w, closeOut, err := openOutput(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if opts.output != "" {
		ui := printer{w: cmd.ErrOrStderr()}
		ui.success("Wrote %s graph", opts.format)
		ui.file(opts.output)
	}
	return nil
}
