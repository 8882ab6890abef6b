package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/zbuilder/pkg/httputil"
	"github.com/matzehuels/zbuilder/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client provides access to repository content through the GitHub contents API.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (lower rate limits), an empty baseURL for
// [DefaultBaseURL] and a nil cache to disable response caching.
func NewClient(token, baseURL string, cache *httputil.Cache) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(cache, headers),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the API endpoint the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListContents lists files and directories in a repository path at ref.
// An empty ref uses the repository's default branch.
func (c *Client) ListContents(ctx context.Context, owner, repo, ref, path string, refresh bool) ([]ContentItem, error) {
	key := "listing:" + owner + "/" + repo + "@" + ref + ":" + path

	var items []ContentItem
	err := c.Cached(ctx, key, refresh, &items, func() error {
		var raw []apiContentResponse
		if err := c.Get(ctx, c.contentsURL(owner, repo, ref, path), &raw); err != nil {
			return err
		}
		items = make([]ContentItem, len(raw))
		for i, r := range raw {
			items[i] = ContentItem{Name: r.Name, Path: r.Path, Type: r.Type, Size: r.Size}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FetchFile retrieves a file and decodes its base64 content. Files too large
// for an inline payload are fetched again in raw form.
func (c *Client) FetchFile(ctx context.Context, owner, repo, ref, path string, refresh bool) (*FileContent, error) {
	key := "file:" + owner + "/" + repo + "@" + ref + ":" + path

	var fc FileContent
	err := c.Cached(ctx, key, refresh, &fc, func() error {
		var raw apiContentResponse
		if err := c.Get(ctx, c.contentsURL(owner, repo, ref, path), &raw); err != nil {
			return err
		}
		if raw.Type != "" && raw.Type != "file" {
			return fmt.Errorf("%s is a %s, not a file", path, raw.Type)
		}

		var content string
		switch raw.Encoding {
		case "base64":
			data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw.Content, "\n", ""))
			if err != nil {
				return fmt.Errorf("decode content of %s: %w", path, err)
			}
			content = string(data)
		case "", "none":
			text, err := c.FetchFileRaw(ctx, owner, repo, ref, path)
			if err != nil {
				return err
			}
			content = text
		default:
			return fmt.Errorf("unsupported encoding %q for %s", raw.Encoding, path)
		}

		fc = FileContent{Path: raw.Path, Size: raw.Size, Content: content}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fc, nil
}

// FetchFileRaw retrieves the raw content of a file without base64 encoding.
func (c *Client) FetchFileRaw(ctx context.Context, owner, repo, ref, path string) (string, error) {
	return c.GetText(ctx, c.contentsURL(owner, repo, ref, path),
		map[string]string{"Accept": "application/vnd.github.v3.raw"})
}

func (c *Client) contentsURL(owner, repo, ref, path string) string {
	var segs []string
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		if s != "" {
			segs = append(segs, url.PathEscape(s))
		}
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL,
		url.PathEscape(owner), url.PathEscape(repo), strings.Join(segs, "/"))
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	return u
}
