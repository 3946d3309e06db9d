package maven

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	jwerrors "github.com/matzehuels/jarwalk/pkg/errors"
	"github.com/matzehuels/jarwalk/pkg/integrations"
	"github.com/matzehuels/jarwalk/pkg/observability"
)

const (
	extPOM = "pom"
	extJar = "jar"
)

// Fetcher downloads url to dest.
//
// On nil error the complete file must exist at dest. Failures wrap
// [integrations.ErrNotFound] when the remote has no such file, and
// [integrations.ErrNetwork] (optionally with an [integrations.StatusError])
// otherwise. A failed fetch may leave a partial file behind.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, url, dest string) error

func (f FetcherFunc) Fetch(ctx context.Context, url, dest string) error { return f(ctx, url, dest) }

// Repository resolves coordinates to local POMs and jars.
//
// Files are looked up in the local directory first and downloaded through
// the Fetcher on a miss. Every outcome, including "unavailable", is
// memoized for the lifetime of the Repository, so a coordinate is fetched
// and parsed at most once. A Repository belongs to a single resolution run
// and is not safe for concurrent use; the local directory may be shared.
type Repository struct {
	baseURL  string
	localDir string
	fetcher  Fetcher
	logger   Logger

	poms map[Key]*POM
	jars map[Key]string
}

// NewRepository creates a repository reading from the remote root baseURL
// and caching files under localDir. A nil logger discards messages.
func NewRepository(baseURL, localDir string, fetcher Fetcher, logger Logger) *Repository {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Repository{
		baseURL:  strings.TrimRight(baseURL, "/"),
		localDir: localDir,
		fetcher:  fetcher,
		logger:   logger,
		poms:     make(map[Key]*POM),
		jars:     make(map[Key]string),
	}
}

// LocalDir returns the local repository directory.
func (r *Repository) LocalDir() string { return r.localDir }

// URL returns the remote URL of the file with extension ext for c.
func (r *Repository) URL(c Coordinate, ext string) string {
	return r.baseURL + "/" + c.relPath(ext)
}

// LocalPath returns the local cache path of the file with extension ext for c.
func (r *Repository) LocalPath(c Coordinate, ext string) string {
	return filepath.Join(r.localDir, filepath.FromSlash(c.relPath(ext)))
}

// POM returns the descriptor for c, or nil when it is missing, unreachable
// or malformed; the reason is logged. The error is reserved for context
// cancellation and fetcher contract violations.
func (r *Repository) POM(ctx context.Context, c Coordinate) (*POM, error) {
	key := c.Key()
	if pom, ok := r.poms[key]; ok {
		observability.Resolver().OnDescriptor(ctx, observability.OutcomeMemoized)
		return pom, nil
	}

	path, outcome, err := r.fetch(ctx, c, extPOM)
	if err != nil {
		return nil, err
	}

	var pom *POM
	if path != "" {
		pom, err = LoadPOM(path)
		if err != nil {
			r.logger.Warnf("ignoring unreadable POM for %s: %v", c, err)
			outcome, pom = observability.OutcomeInvalid, nil
		}
	}
	observability.Resolver().OnDescriptor(ctx, outcome)
	r.poms[key] = pom
	return pom, nil
}

// Jar returns the local path of the jar for c, or "" when it could not be
// obtained. Like [Repository.POM] it memoizes every outcome.
func (r *Repository) Jar(ctx context.Context, c Coordinate) (string, error) {
	key := c.Key()
	if path, ok := r.jars[key]; ok {
		observability.Resolver().OnArtifact(ctx, observability.OutcomeMemoized)
		return path, nil
	}

	path, outcome, err := r.fetch(ctx, c, extJar)
	if err != nil {
		return "", err
	}
	observability.Resolver().OnArtifact(ctx, outcome)
	r.jars[key] = path
	return path, nil
}

func (r *Repository) fetch(ctx context.Context, c Coordinate, ext string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if err := c.Validate(); err != nil {
		r.logger.Warnf("skipping %s: %v", c, err)
		return "", observability.OutcomeInvalid, nil
	}

	path := r.LocalPath(c, ext)
	if fileExists(path) {
		r.logger.Debugf("using cached file %s", path)
		return path, observability.OutcomeLocal, nil
	}

	url := r.URL(c, ext)
	r.logger.Debugf("downloading %s", url)
	err := r.fetcher.Fetch(ctx, url, path)
	if err == nil {
		if !fileExists(path) {
			return "", "", jwerrors.New(jwerrors.ErrCodeInternal,
				"fetcher reported success for %s but %s does not exist", url, path)
		}
		r.logger.Debugf("downloaded %s", path)
		return path, observability.OutcomeFetched, nil
	}

	// A failed fetch may leave a truncated file that would be mistaken
	// for a cached copy on the next run.
	_ = os.Remove(path)
	if ctx.Err() != nil {
		return "", "", ctx.Err()
	}

	var status *integrations.StatusError
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		r.logger.Warnf("%s was not found: %s", c, url)
		return "", observability.OutcomeNotFound, nil
	case errors.As(err, &status):
		r.logger.Errorf("failed to download %s: %d %s", url, status.Code, status.Reason)
	default:
		r.logger.Errorf("failed to download %s: %v", url, err)
	}
	return "", observability.OutcomeError, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
