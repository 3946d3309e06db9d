package maven

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/jarwalk/pkg/integrations"
)

const testBaseURL = "https://repo.example.com/maven2"

// fakeRemote serves files keyed by repository-relative path and counts
// fetches per URL.
type fakeRemote struct {
	files  map[string]string
	errors map[string]error
	calls  map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		files:  make(map[string]string),
		errors: make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeRemote) Fetch(_ context.Context, url, dest string) error {
	f.calls[url]++
	rel := strings.TrimPrefix(url, testBaseURL+"/")
	if err, ok := f.errors[rel]; ok {
		return err
	}
	body, ok := f.files[rel]
	if !ok {
		return integrations.ErrNotFound
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(body), 0o644)
}

// pom registers a POM for g:a:v.
func (f *fakeRemote) pom(g, a, v, body string) {
	f.files[NewCoordinate(g, a, v).relPath(extPOM)] = body
}

// jar registers a jar for g:a:v.
func (f *fakeRemote) jar(g, a, v string) {
	f.files[NewCoordinate(g, a, v).relPath(extJar)] = "PK\x03\x04"
}

// artifact registers a POM and a jar.
func (f *fakeRemote) artifact(g, a, v, body string) {
	f.pom(g, a, v, body)
	f.jar(g, a, v)
}

func (f *fakeRemote) fetches(c Coordinate, ext string) int {
	return f.calls[testBaseURL+"/"+c.relPath(ext)]
}

type logEntry struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) log(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: fmt.Sprintf(format, args...)})
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.log("debug", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.log("info", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.log("warn", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.log("error", format, args...) }

// contains reports whether a message at level contains substr.
func (l *recordingLogger) contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && strings.Contains(e.msg, substr) {
			return true
		}
	}
	return false
}

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

type fixture struct {
	remote   *fakeRemote
	logger   *recordingLogger
	repo     *Repository
	resolver *Resolver
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		remote: newFakeRemote(),
		logger: &recordingLogger{},
		dir:    t.TempDir(),
	}
	f.repo = NewRepository(testBaseURL, f.dir, f.remote, f.logger)
	f.resolver = NewResolver(f.repo, f.logger, Options{})
	return f
}

// jarPath is the local path the fixture stores the jar of g:a:v at.
func (f *fixture) jarPath(g, a, v string) string {
	return f.repo.LocalPath(NewCoordinate(g, a, v), extJar)
}

// project renders a minimal POM. Extra is inserted verbatim inside <project>.
func project(g, a, v, extra string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>%s</groupId>
  <artifactId>%s</artifactId>
  <version>%s</version>
  %s
</project>`, g, a, v, extra)
}

// deps renders a <dependencies> block.
func deps(items ...string) string {
	return "<dependencies>" + strings.Join(items, "") + "</dependencies>"
}

// dep renders one <dependency>. Empty fields are omitted.
func dep(g, a, v, scope string) string {
	var b strings.Builder
	b.WriteString("<dependency><groupId>" + g + "</groupId><artifactId>" + a + "</artifactId>")
	if v != "" {
		b.WriteString("<version>" + v + "</version>")
	}
	if scope != "" {
		b.WriteString("<scope>" + scope + "</scope>")
	}
	b.WriteString("</dependency>")
	return b.String()
}

func parent(g, a, v string) string {
	return "<parent><groupId>" + g + "</groupId><artifactId>" + a + "</artifactId><version>" + v + "</version></parent>"
}
