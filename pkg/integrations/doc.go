// Package integrations provides the HTTP plumbing for fetching library sources.
//
// # Overview
//
// The [Client] type wraps an HTTP client with:
//   - default request headers and a zbuilder User-Agent
//   - file-based response caching with a TTL ([httputil.Cache])
//   - retries with exponential backoff for network errors and 5xx responses
//   - status mapping: 404 to [ErrNotFound], 429 to a rate-limit error
//
// Source hosts live in subpackages. [github] lists a repository's source
// directory through the GitHub contents API and returns [SourceFile] values
// in listing order.
//
//	f, err := github.NewFetcher(github.Config{Owner: "madrobby", Repo: "zepto"})
//	files, err := f.FetchModules(ctx)
//
// [github]: github.com/matzehuels/zbuilder/pkg/integrations/github
// [httputil.Cache]: github.com/matzehuels/zbuilder/pkg/httputil.Cache
package integrations
