// Package github fetches library module sources from the GitHub contents API.
//
// A [Fetcher] lists one source directory of a repository (for Zepto:
// madrobby/zepto, branch master, directory src), keeps the file entries whose
// names end in the configured suffix, and downloads each file. Contents are
// returned base64-decoded, in the order GitHub listed them.
//
//	f, err := github.NewFetcher(github.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	files, err := f.FetchModules(ctx)   // []integrations.SourceFile
//	version, err := f.FetchVersion(ctx) // "1.2.0", read from package.json
//
// Responses are cached on disk for Config.CacheTTL and transient failures are
// retried with backoff. A GITHUB_TOKEN raises the unauthenticated rate limit.
package github
