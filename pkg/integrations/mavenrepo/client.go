package mavenrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	jwerrors "github.com/matzehuels/jarwalk/pkg/errors"
	"github.com/matzehuels/jarwalk/pkg/httputil"
	"github.com/matzehuels/jarwalk/pkg/integrations"
)

// DefaultURL is the root of Maven Central.
const DefaultURL = "https://repo1.maven.org/maven2"

// Metadata is the artifact-level maven-metadata.xml document listing the
// published versions of one groupId:artifactId.
type Metadata struct {
	GroupID     string   `xml:"groupId" json:"group_id"`
	ArtifactID  string   `xml:"artifactId" json:"artifact_id"`
	Latest      string   `xml:"versioning>latest" json:"latest,omitempty"`
	Release     string   `xml:"versioning>release" json:"release,omitempty"`
	Versions    []string `xml:"versioning>versions>version" json:"versions,omitempty"`
	LastUpdated string   `xml:"versioning>lastUpdated" json:"last_updated,omitempty"`
}

// Client talks to one Maven 2 layout repository.
//
// Its [Client.Fetch] method is the download collaborator used by the
// resolver; [Client.LatestVersion] answers "which version should I use"
// when the caller names only groupId:artifactId.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the repository rooted at baseURL (for
// example [DefaultURL]). Metadata lookups are cached in cache, namespaced
// by repository; cache may be nil to disable caching.
func NewClient(baseURL string, cache *httputil.Cache, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if cache != nil {
		cache = cache.Namespace("maven-metadata:" + baseURL + ":")
	}
	return &Client{
		Client:  integrations.NewClient(cache, timeout, integrations.DefaultHeaders()),
		baseURL: baseURL,
	}
}

// BaseURL returns the repository root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Fetch downloads url to dest. On success the complete file exists at dest.
// Errors wrap [integrations.ErrNotFound] for 404 responses and
// [integrations.ErrNetwork] for everything else.
func (c *Client) Fetch(ctx context.Context, url, dest string) error {
	return c.Download(ctx, url, dest)
}

// Metadata retrieves maven-metadata.xml for group:artifact.
// If refresh is true, the cache is bypassed.
func (c *Client) Metadata(ctx context.Context, group, artifact string, refresh bool) (*Metadata, error) {
	if err := jwerrors.ValidateCoordinatePart("groupId", group); err != nil {
		return nil, err
	}
	if err := jwerrors.ValidateCoordinatePart("artifactId", artifact); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s/maven-metadata.xml", c.baseURL, strings.ReplaceAll(group, ".", "/"), artifact)
	var md Metadata
	err := c.Cached(ctx, group+":"+artifact, refresh, &md, func() error {
		return c.GetXML(ctx, url, &md)
	})
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, fmt.Errorf("%w: maven artifact %s:%s", err, group, artifact)
	}
	if err != nil {
		return nil, err
	}
	return &md, nil
}

// LatestVersion returns the version to use for group:artifact when none was
// given: the metadata's <release>, else <latest>, else the highest listed
// version. Versions that are not semver-coercible are only considered when
// no listed version parses, in which case the last listed one wins.
func (c *Client) LatestVersion(ctx context.Context, group, artifact string, refresh bool) (string, error) {
	md, err := c.Metadata(ctx, group, artifact, refresh)
	if err != nil {
		return "", err
	}
	if v := pickVersion(md); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: no versions published for %s:%s", integrations.ErrNotFound, group, artifact)
}

func pickVersion(md *Metadata) string {
	if v := strings.TrimSpace(md.Release); v != "" {
		return v
	}
	if v := strings.TrimSpace(md.Latest); v != "" {
		return v
	}
	return highest(md.Versions)
}

func highest(versions []string) string {
	var (
		best    *semver.Version
		bestRaw string
		last    string
	)
	for _, raw := range versions {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		last = raw
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	if best != nil {
		return bestRaw
	}
	return last
}
