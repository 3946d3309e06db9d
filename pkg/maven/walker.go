package maven

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/matzehuels/jarwalk/pkg/deptree"
	jwerrors "github.com/matzehuels/jarwalk/pkg/errors"
	"github.com/matzehuels/jarwalk/pkg/observability"
)

// Options tunes a resolution run.
type Options struct {
	// SkipOptional drops <optional>true</optional> dependencies declared by
	// transitive descriptors. Optional dependencies of the root are kept.
	SkipOptional bool
}

// Skip reasons recorded in [Result.Skipped].
const (
	ReasonScope      = "scope"
	ReasonOptional   = "optional"
	ReasonUnresolved = "unresolved version"
)

// Skipped is a declared dependency the walker did not follow.
type Skipped struct {
	Dependency string `json:"dependency" toml:"dependency"`
	From       string `json:"from" toml:"from"`
	Reason     string `json:"reason" toml:"reason"`
	Scope      string `json:"scope,omitempty" toml:"scope,omitempty"`
}

// Result is the outcome of one [Resolver.Resolve] call.
type Result struct {
	RunID     string
	Root      Coordinate
	Artifacts []string // local jar paths, first contribution wins
	Skipped   []Skipped
	Graph     *deptree.Graph
	Duration  time.Duration
}

// Unresolved returns the skipped dependencies whose version could not be
// determined.
func (r *Result) Unresolved() []Skipped {
	var out []Skipped
	for _, s := range r.Skipped {
		if s.Reason == ReasonUnresolved {
			out = append(out, s)
		}
	}
	return out
}

// CheckUnresolved returns an UNRESOLVED_VERSION error naming the first
// unresolved dependency, or nil when every version was resolved.
func (r *Result) CheckUnresolved() error {
	un := r.Unresolved()
	if len(un) == 0 {
		return nil
	}
	return jwerrors.New(jwerrors.ErrCodeUnresolvedVersion,
		"%d dependencies with unresolved versions, first %s declared by %s", len(un), un[0].Dependency, un[0].From)
}

// Resolver walks the dependency graph of a coordinate and collects jars.
//
// A Resolver and its [Repository] hold the state of one run. The walk is
// sequential and not safe for concurrent use; create one Resolver per run.
type Resolver struct {
	repo   *Repository
	logger Logger
	opts   Options
}

// NewResolver creates a resolver over repo. A nil logger discards messages.
func NewResolver(repo *Repository, logger Logger, opts Options) *Resolver {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Resolver{repo: repo, logger: logger, opts: opts}
}

// Repository returns the repository the resolver reads from.
func (r *Resolver) Repository() *Repository { return r.repo }

// walk is the traversal state threaded through one resolution.
type walk struct {
	visited   map[Key]bool
	ids       map[Key]string // coordinate key -> first spelling seen, used as node ID
	taken     map[string]bool
	artifacts []string
	skipped   []Skipped
	graph     *deptree.Graph
}

// ResolveArtifacts returns the local jar paths for root and, when
// includeDependencies is set, its transitive runtime dependencies.
func (r *Resolver) ResolveArtifacts(ctx context.Context, root Coordinate, includeDependencies bool) ([]string, error) {
	res, err := r.Resolve(ctx, root, includeDependencies)
	if err != nil {
		return nil, err
	}
	return res.Artifacts, nil
}

// Resolve walks root depth-first and reports the jars found, the
// dependencies skipped and the explored graph.
//
// Missing, unreachable or malformed descriptors and unresolvable versions
// are logged and skipped; they never fail the run. Errors are returned
// only for an invalid root coordinate, a cancelled context or a Fetcher
// that violates its contract.
func (r *Resolver) Resolve(ctx context.Context, root Coordinate, includeDependencies bool) (*Result, error) {
	if root.Group() == "" || root.Artifact() == "" {
		return nil, jwerrors.New(jwerrors.ErrCodeInvalidCoordinate, "root coordinate %q is missing groupId or artifactId", root)
	}
	if !root.HasVersion() {
		return nil, jwerrors.New(jwerrors.ErrCodeInvalidCoordinate, "root coordinate %s has no version", root)
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	hooks := observability.Resolver()
	hooks.OnResolveStart(ctx, root.String())

	ctx, span := observability.StartSpan(ctx, observability.SpanResolve,
		attribute.String("maven.root", root.String()),
		attribute.String("jarwalk.run_id", runID),
	)
	defer span.End()

	r.logger.Debugf("processing dependency %s", root)
	w := newWalk(root)
	err := r.visit(ctx, w, root, includeDependencies, 0)
	duration := time.Since(start)

	hooks.OnResolveComplete(ctx, root.String(), len(w.artifacts), len(w.skipped), duration, err)
	observability.RecordError(span, err)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("maven.artifacts", len(w.artifacts)))

	return &Result{
		RunID:     runID,
		Root:      root,
		Artifacts: w.artifacts,
		Skipped:   w.skipped,
		Graph:     w.graph,
		Duration:  duration,
	}, nil
}

func (r *Resolver) visit(ctx context.Context, w *walk, c Coordinate, includeDependencies bool, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := c.Key()
	if w.visited[key] {
		r.logger.Debugf("dependency %s already visited", c)
		return nil
	}
	w.visited[key] = true
	node, _ := w.graph.AddNode(w.nodeID(c))

	ctx, span := observability.StartSpan(ctx, observability.SpanVisit, attribute.String("maven.coordinate", c.String()))
	defer span.End()

	pom, err := r.repo.POM(ctx, c)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}
	if pom == nil {
		node.Status = deptree.StatusMissing
		return nil
	}
	node.Packaging = pom.PackagingOrDefault()

	if pom.IsJar() {
		path, err := r.repo.Jar(ctx, c)
		if err != nil {
			observability.RecordError(span, err)
			return err
		}
		if path != "" {
			if containsPath(w.artifacts, path) {
				r.logger.Warnf("%s: jar %s was already added by another dependency", c, path)
			} else {
				w.artifacts = append(w.artifacts, path)
				node.Jar = path
			}
		}
	} else {
		r.logger.Debugf("%s has packaging %q and does not contain a jar", pom, pom.Packaging)
	}

	if !includeDependencies {
		return nil
	}

	deps, err := r.EffectiveDependencies(ctx, pom)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		if !dep.InScope() {
			r.logger.Debugf("skipping dependency %s with scope %s", dep, dep.Scope)
			w.skip(dep, c, ReasonScope)
			continue
		}
		if r.opts.SkipOptional && dep.Optional && depth > 0 {
			r.logger.Debugf("skipping optional dependency %s of %s", dep, c)
			w.skip(dep, c, ReasonOptional)
			continue
		}

		resolved, ok, err := r.resolveDependency(ctx, dep, pom)
		if err != nil {
			return err
		}
		if !ok {
			r.logger.Warnf("failed to resolve version of dependency %s declared by %s", dep, c)
			observability.Resolver().OnUnresolvedVersion(ctx, dep.String())
			w.skip(dep, c, ReasonUnresolved)
			continue
		}

		childID := w.nodeID(resolved)
		if _, err := w.graph.AddNode(childID); err == nil {
			_ = w.graph.AddEdge(deptree.Edge{From: node.ID, To: childID, Scope: dep.Scope})
		}
		if err := r.visit(ctx, w, resolved, true, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func newWalk(root Coordinate) *walk {
	w := &walk{
		visited: make(map[Key]bool),
		ids:     make(map[Key]string),
		taken:   make(map[string]bool),
		graph:   deptree.New(root.String()),
	}
	w.nodeID(root)
	return w
}

// nodeID returns the graph node ID for c. Coordinates differing only in
// case share the node of the first spelling encountered. Distinct
// coordinates whose strings collide get a numeric suffix.
func (w *walk) nodeID(c Coordinate) string {
	key := c.Key()
	if id, ok := w.ids[key]; ok {
		return id
	}
	id := c.String()
	for n := 2; w.taken[id]; n++ {
		id = fmt.Sprintf("%s#%d", c, n)
	}
	w.ids[key] = id
	w.taken[id] = true
	return id
}

func (w *walk) skip(dep Dependency, from Coordinate, reason string) {
	w.skipped = append(w.skipped, Skipped{
		Dependency: dep.String(),
		From:       from.String(),
		Reason:     reason,
		Scope:      dep.Scope,
	})
}

// resolveDependency expands the group and artifact of dep and resolves its
// version against owner.
func (r *Resolver) resolveDependency(ctx context.Context, dep Dependency, owner *POM) (Coordinate, bool, error) {
	group, ok := r.Expand(dep.Group(), owner)
	if !ok || group == "" {
		return Coordinate{}, false, nil
	}
	artifact, ok := r.Expand(dep.Artifact(), owner)
	if !ok || artifact == "" {
		return Coordinate{}, false, nil
	}
	dep.Coordinate = NewCoordinate(group, artifact, dep.Version())

	version, ok, err := r.ResolveVersion(ctx, dep, owner)
	if err != nil || !ok {
		return Coordinate{}, false, err
	}
	return dep.WithVersion(version), true, nil
}

// EffectiveDependencies returns the dependencies declared by pom followed by
// those inherited through its parent chain. When an ancestor declares the
// same artifact as a more specific level, the more specific declaration
// wins and the inherited one is dropped.
func (r *Resolver) EffectiveDependencies(ctx context.Context, pom *POM) ([]Dependency, error) {
	var all []Dependency
	seen := map[Key]bool{pom.Coordinate().Key(): true}

	for cur := pom; cur != nil; {
		r.logger.Debugf("adding dependencies declared in %s", cur)
		for _, dep := range cur.Dependencies {
			if containsArtifact(all, dep.Coordinate) {
				r.logger.Debugf("skipping inherited dependency %s", dep)
				continue
			}
			all = append(all, dep)
		}

		if cur.Parent == nil {
			break
		}
		key := cur.Parent.Key()
		if seen[key] {
			r.logger.Warnf("parent cycle at %s, stopping inheritance walk of %s", cur.Parent, pom)
			break
		}
		seen[key] = true

		parent, err := r.repo.POM(ctx, *cur.Parent)
		if err != nil {
			return nil, err
		}
		cur = parent
	}
	return all, nil
}

// FetchJar fetches the jar of a single coordinate without its dependencies.
// It returns "" when the jar could not be obtained.
func (r *Resolver) FetchJar(ctx context.Context, c Coordinate) (string, error) {
	if !c.HasVersion() {
		return "", jwerrors.New(jwerrors.ErrCodeInvalidCoordinate, "coordinate %s has no version", c)
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	r.logger.Debugf("processing artifact %s", c)
	return r.repo.Jar(ctx, c)
}

// JarsFromPOM fetches the jar of every dependency declared directly in pom,
// without following transitive dependencies. Versions are resolved the same
// way the walker resolves them, with pom as the owner. Duplicate paths are
// reported once.
func (r *Resolver) JarsFromPOM(ctx context.Context, pom *POM) ([]string, error) {
	if pom == nil {
		return nil, jwerrors.New(jwerrors.ErrCodeInvalidInput, "nil POM")
	}
	var jars []string
	for _, dep := range pom.Dependencies {
		c, ok, err := r.resolveDependency(ctx, dep, pom)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.logger.Warnf("failed to resolve version of dependency %s declared by %s", dep, pom)
			continue
		}
		path, err := r.FetchJar(ctx, c)
		if err != nil {
			if jwerrors.Is(err, jwerrors.ErrCodeInvalidCoordinate) {
				r.logger.Warnf("skipping %s: %v", c, err)
				continue
			}
			return nil, err
		}
		if path != "" && !containsPath(jars, path) {
			jars = append(jars, path)
		}
	}
	return jars, nil
}

func containsArtifact(deps []Dependency, c Coordinate) bool {
	for _, d := range deps {
		if d.SameArtifact(c) {
			return true
		}
	}
	return false
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if strings.EqualFold(p, path) {
			return true
		}
	}
	return false
}
