package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jarwalk/pkg/maven"
)

// Output formats of the resolve command.
const (
	formatText = "text"
	formatJSON = "json"
	formatTOML = "toml"
)

// report is the serialized form of a resolution result.
type report struct {
	RunID      string          `json:"run_id" toml:"run_id"`
	Root       string          `json:"root" toml:"root"`
	DurationMS int64           `json:"duration_ms" toml:"duration_ms"`
	Nodes      int             `json:"nodes" toml:"nodes"`
	Edges      int             `json:"edges" toml:"edges"`
	Artifacts  []string        `json:"artifacts" toml:"artifacts"`
	Skipped    []maven.Skipped `json:"skipped,omitempty" toml:"skipped,omitempty"`
}

func newReport(res *maven.Result) report {
	r := report{
		RunID:      res.RunID,
		Root:       res.Root.String(),
		DurationMS: res.Duration.Milliseconds(),
		Artifacts:  res.Artifacts,
		Skipped:    res.Skipped,
	}
	if r.Artifacts == nil {
		r.Artifacts = []string{}
	}
	if res.Graph != nil {
		r.Nodes = res.Graph.NodeCount()
		r.Edges = res.Graph.EdgeCount()
	}
	return r
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatTOML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatText, formatJSON, formatTOML)
}

// writeReport encodes res to w in the given format. The text format lists
// one jar path per line, or a single class path when classpath is set.
func writeReport(w io.Writer, res *maven.Result, format string, classpath bool) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(res))
	case formatTOML:
		return toml.NewEncoder(w).Encode(newReport(res))
	case formatText, "":
		return writePaths(w, res.Artifacts, classpath)
	default:
		return validateFormat(format)
	}
}

func writePaths(w io.Writer, paths []string, classpath bool) error {
	if classpath {
		_, err := fmt.Fprintln(w, strings.Join(paths, string(os.PathListSeparator)))
		return err
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

// openOutput returns stdout when path is empty, else the created file.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
