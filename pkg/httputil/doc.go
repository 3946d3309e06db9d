// Package httputil provides HTTP utilities for repository clients.
//
// # Caching
//
// [Cache] stores small JSON documents (for example parsed maven-metadata.xml
// lookups) under $XDG_CACHE_HOME/jarwalk/http with a configurable TTL.
// Downloaded POM and jar files are not kept here: they live in the local
// repository directory managed by the resolver.
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, err := cache.Get("org.slf4j:slf4j-api", &versions)
//	if !ok {
//	    versions = fetch()
//	    cache.Set("org.slf4j:slf4j-api", versions)
//	}
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff when it fails with a
// [RetryableError]. Transport code wraps connection failures and 5xx
// responses this way; 404 and other client errors are never retried.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return download(url, dest)
//	})
package httputil
