// Package ghrepo persists collection documents as files in a GitHub
// repository through the contents API. The blob SHA returned with every
// read doubles as the optimistic-concurrency token required on writes.
package ghrepo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
)

// Client implements jsonstore.Backend over a GitHub repository.
type Client struct {
	gh       *github.Client
	owner    string
	repo     string
	branch   string
	dataPath string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithBaseURL points the client at a GitHub Enterprise or test server URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed == "" {
			return
		}
		if client, err := c.gh.WithEnterpriseURLs(trimmed, trimmed); err == nil {
			c.gh = client
		}
	}
}

// New builds a contents-API backend for the configured repository.
func New(cfg config.GitHubConfig, opts ...Option) *Client {
	var httpClient *http.Client
	if cfg.Token != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), source)
	}
	client := &Client{
		gh:       github.NewClient(httpClient),
		owner:    cfg.RepoOwner,
		repo:     cfg.RepoName,
		branch:   cfg.Branch,
		dataPath: strings.Trim(cfg.DataPath, "/"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Read fetches the document and its blob SHA.
func (c *Client) Read(ctx context.Context, name string) ([]byte, string, error) {
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, c.path(name), &github.RepositoryContentGetOptions{
		Ref: c.branch,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, "", jsonstore.ErrNotFound
		}
		return nil, "", fmt.Errorf("get contents %s: %w", name, err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("path %s is a directory", c.path(name))
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("decode contents %s: %w", name, err)
	}
	return []byte(content), file.GetSHA(), nil
}

// Write commits the document in a single commit guarded by the blob SHA.
// An empty version creates the file.
func (c *Client) Write(ctx context.Context, name string, data []byte, version string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Update %s", name)),
		Content: data,
		Branch:  github.String(c.branch),
	}
	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
		err  error
	)
	if version == "" {
		res, resp, err = c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, c.path(name), opts)
	} else {
		opts.SHA = github.String(version)
		res, resp, err = c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, c.path(name), opts)
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity) {
			return "", jsonstore.ErrConflict
		}
		return "", fmt.Errorf("put contents %s: %w", name, err)
	}
	if res == nil || res.Content == nil {
		return "", fmt.Errorf("put contents %s: empty response", name)
	}
	return res.Content.GetSHA(), nil
}

// Ping verifies the repository is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.gh.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return fmt.Errorf("get repository %s/%s: %w", c.owner, c.repo, err)
	}
	return nil
}

func (c *Client) path(name string) string {
	if c.dataPath == "" {
		return name
	}
	return c.dataPath + "/" + name
}
