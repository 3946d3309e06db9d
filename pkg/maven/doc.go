// Package maven resolves Maven coordinates to local jar files.
//
// # Overview
//
// Given a root coordinate, [Resolver] downloads its POM, collects its jar
// and walks the transitive runtime dependency graph depth-first:
//
//	repo := maven.NewRepository(mavenrepo.DefaultURL, localDir, client, logger)
//	res, err := maven.NewResolver(repo, logger, maven.Options{}).
//		Resolve(ctx, maven.NewCoordinate("org.slf4j", "slf4j-api", "2.0.9"), true)
//
// [Repository] owns the file layout and memoization. POMs and jars are
// read from the local directory when present and fetched through a
// [Fetcher] otherwise. The mavenrepo client satisfies Fetcher.
//
// # Versions
//
// A dependency version is taken, in order, from the declaration itself,
// from the owner's dependencyManagement section and then from the parent
// chain. A version of the form ${name} is expanded from the built-in
// project variables or the owner's properties. Dependencies whose version
// cannot be resolved are logged, recorded in [Result.Skipped] and left out.
//
// # Scope
//
// Only dependencies with no scope, compile or runtime scope are followed.
// Exclusions are parsed but not applied, and version conflicts are not
// mediated: the first coordinate to claim a jar path wins.
//
// # Failure model
//
// Missing or unreachable files and malformed POMs are logged and treated
// as absent so a partial graph still produces a result. Only context
// cancellation, an invalid root and a [Fetcher] reporting success without
// producing a file abort the walk.
package maven
