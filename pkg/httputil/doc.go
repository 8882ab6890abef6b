// Package httputil provides HTTP utilities for the GitHub content client.
//
// # Overview
//
// This package provides infrastructure used by [integrations.Client]:
//
//   - [Cache]: File-based API response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores decoded API responses in the filesystem
// (~/.cache/zbuilder/http/) with a configurable TTL. Module listings and
// file contents rarely change, so repeated builds avoid the GitHub rate
// limit entirely.
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var items []github.ContentItem
//	if ok, _ := cache.Get("listing:madrobby/zepto/src", &items); !ok {
//	    items = fetchFromAPI()
//	    cache.Set("listing:madrobby/zepto/src", items)
//	}
//
// # Retry
//
// [Retry] re-runs a function while it returns a [RetryableError], doubling
// the delay between attempts. Network failures and 5xx responses are wrapped
// as retryable by the client; 4xx responses are not.
//
// The cache can be cleared via `zbuilder cache clear` or by deleting the
// cache directory.
package httputil
