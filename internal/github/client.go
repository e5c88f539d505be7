// Package github provides a best-effort GitHub API client used by clean
// mode to avoid deleting branches that still have an open pull request.
package github

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps GitHub API access.
type Client struct {
	rest  *api.RESTClient
	token string
}

// NewClient creates a GitHub client. It attempts to use authentication from
// the gh CLI config, falling back to the provided token, falling back to
// unauthenticated access.
func NewClient(token string) *Client {
	c := &Client{token: token}

	// Try default gh CLI authentication first.
	rest, err := api.DefaultRESTClient()
	if err == nil {
		slog.Debug("using gh CLI authentication")
		c.rest = rest
		return c
	}
	slog.Debug("gh CLI auth not available", "error", err)

	// Fall back to explicit token.
	if token != "" {
		rest, err = api.NewRESTClient(api.ClientOptions{
			AuthToken: token,
		})
		if err == nil {
			slog.Debug("using explicit token authentication")
			c.rest = rest
			return c
		}
		slog.Debug("token auth failed", "error", err)
	}

	// Unauthenticated -- will hit rate limits quickly.
	slog.Debug("using unauthenticated access (rate limits apply)")
	rest, err = api.NewRESTClient(api.ClientOptions{})
	if err != nil {
		slog.Warn("could not create REST client", "error", err)
		return c
	}
	c.rest = rest
	return c
}

// prResponse holds the fields we care about from the pulls listing.
type prResponse struct {
	Number int    `json:"number"`
	State  string `json:"state"`
}

// HasOpenPR reports whether the given head branch has an open pull request
// in owner/repo.
func (c *Client) HasOpenPR(owner, repo, branch string) (bool, error) {
	if c.rest == nil {
		return false, fmt.Errorf("no GitHub API client available")
	}

	var prs []prResponse
	err := c.rest.Get(
		fmt.Sprintf("repos/%s/%s/pulls?head=%s:%s&state=open&per_page=1",
			owner, repo, owner, branch),
		&prs,
	)
	if err != nil {
		return false, fmt.Errorf("querying PRs for %s/%s branch %s: %w", owner, repo, branch, err)
	}
	return len(prs) > 0, nil
}

// sshRemoteRe matches SSH-style GitHub remote URLs:
//
//	git@github.com:owner/repo.git
var sshRemoteRe = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)

// ParseGitHubRemote extracts owner and repo from a GitHub remote URL.
// Supports both SSH (git@github.com:owner/repo.git) and HTTPS
// (https://github.com/owner/repo.git) formats.
func ParseGitHubRemote(url string) (owner, repo string, ok bool) {
	// Try SSH format first.
	if m := sshRemoteRe.FindStringSubmatch(url); m != nil {
		return m[1], m[2], true
	}

	// Try HTTPS format.
	url = strings.TrimSuffix(url, ".git")
	for _, prefix := range []string{"https://github.com/", "http://github.com/"} {
		if strings.HasPrefix(url, prefix) {
			rest := strings.TrimPrefix(url, prefix)
			parts := strings.SplitN(rest, "/", 3)
			if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
				return parts[0], parts[1], true
			}
		}
	}

	return "", "", false
}
