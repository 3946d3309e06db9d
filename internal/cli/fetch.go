package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	jwerrors "github.com/matzehuels/jarwalk/pkg/errors"
	"github.com/matzehuels/jarwalk/pkg/maven"
)

type fetchOpts struct {
	repoOpts
	pom       string
	classpath bool
}

func (c *CLI) fetchCommand() *cobra.Command {
	opts := fetchOpts{}

	cmd := &cobra.Command{
		Use:   "fetch [groupId:artifactId[:version]]",
		Short: "Download a single jar, or the direct dependencies of a POM",
		Long: `Download the jar of one coordinate without its dependencies, or, with
--pom, the jars of every dependency declared directly in a local POM file.

Examples:
  jarwalk fetch junit:junit:4.13.2
  jarwalk fetch --pom ./pom.xml --classpath`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.pom != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, &opts, args)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.pom, "pom", "", "fetch the dependencies declared in this POM file")
	cmd.Flags().BoolVar(&opts.classpath, "classpath", false, "print a single class path instead of one jar per line")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, opts *fetchOpts, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := c.newSession(ctx, &opts.repoOpts)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var jars []string
	if opts.pom != "" {
		pom, err := maven.LoadPOM(opts.pom)
		if err != nil {
			return err
		}
		if jars, err = s.resolver.JarsFromPOM(ctx, pom); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Fetched %d jars declared in %s", len(jars), opts.pom))
	} else {
		coord, err := s.coordinate(ctx, args[0])
		if err != nil {
			return err
		}
		path, err := s.resolver.FetchJar(ctx, coord)
		if err != nil {
			return err
		}
		if path == "" {
			return jwerrors.New(jwerrors.ErrCodeNotFound, "no jar available for %s", coord)
		}
		jars = []string{path}
		prog.done(fmt.Sprintf("Fetched %s", coord))
	}

	return writePaths(cmd.OutOrStdout(), jars, opts.classpath)
}
