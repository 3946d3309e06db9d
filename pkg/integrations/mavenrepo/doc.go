// Package mavenrepo provides an HTTP client for Maven 2 layout repositories.
//
// # Overview
//
// Maven Central (https://repo1.maven.org/maven2) and most private mirrors
// serve artifacts at
//
//	{root}/{group with dots as slashes}/{artifact}/{version}/{artifact}-{version}.{pom|jar}
//
// and list published versions in
//
//	{root}/{group with dots as slashes}/{artifact}/maven-metadata.xml
//
// # Usage
//
//	client := mavenrepo.NewClient(mavenrepo.DefaultURL, cache, 30*time.Second)
//
//	version, err := client.LatestVersion(ctx, "com.google.guava", "guava", false)
//	err = client.Fetch(ctx, pomURL, localPath)
//
// [Client.Fetch] satisfies the maven.Fetcher interface, so a Client can be
// handed straight to the resolver.
//
// # Caching
//
// Metadata documents are cached per repository with the TTL of the supplied
// cache. POM and jar downloads are not cached here; the resolver keeps them
// in its local repository directory.
package mavenrepo
