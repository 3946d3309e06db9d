// Package integrations provides the shared HTTP client used to talk to
// artifact repositories.
//
// # Overview
//
// Repository-specific clients live in subpackages and embed [Client]:
//
//   - [mavenrepo]: Maven 2 layout repositories (Maven Central, Nexus, Artifactory)
//
// # Client Pattern
//
//	cache, _ := integrations.NewCache(24 * time.Hour)
//	client := integrations.NewClient(cache, 30*time.Second, integrations.DefaultHeaders())
//	err := client.Download(ctx, url, "/tmp/guava-33.0.0-jre.pom")
//
// [Client] handles:
//   - Retry with exponential backoff for connection errors and 5xx responses
//   - Atomic downloads (temporary file, then rename)
//   - Small-document caching via [httputil.Cache]
//   - HTTP hooks from the observability package
//
// # Errors
//
// A 404 yields [ErrNotFound]. Every other failure wraps [ErrNetwork]; when
// the server answered, the chain also contains a [*StatusError] with the
// status code and reason.
//
// [mavenrepo]: github.com/matzehuels/jarwalk/pkg/integrations/mavenrepo
// [httputil.Cache]: github.com/matzehuels/jarwalk/pkg/httputil.Cache
package integrations
