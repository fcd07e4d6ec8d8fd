// Package github is the REST client for the rate-limited GitHub API. Quota
// exhaustion is handled inside each call: the client pauses until the
// advertised reset and re-issues the request, invisibly to the caller's
// retry budget.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/engine"
	"github.com/vietddude/orglens/internal/metrics"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

const perPage = 100

// ErrNotFound is returned when the requested resource does not exist, e.g.
// a repository without a README.
var ErrNotFound = errors.New("github: not found")

// APIError is a non-success response that is not a quota denial.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: %s returned status %d", e.URL, e.StatusCode)
}

// Config holds GitHub API client configuration.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Pauser suspends the caller until an exhausted quota window resets.
type Pauser interface {
	Pause(ctx context.Context, rl engine.RateLimit) error
}

// Client talks to the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    Pauser
	log        *slog.Logger
}

// NewClient builds a client. A non-empty token raises the hourly quota and
// is sent as a token authorization header.
func NewClient(cfg Config, limiter Pauser, log *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
		log:     log,
	}
}

// ListOrgRepos returns every repository of the organization, in the fixed
// order the API pages them. The order is what checkpoint cursors index into.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]*domain.Repo, error) {
	var repos []*domain.Repo

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/orgs/%s/repos?page=%d&per_page=%d", c.baseURL, org, page, perPage)
		body, err := c.get(ctx, "list_repos", url, "")
		if err != nil {
			return nil, fmt.Errorf("failed to list repos page %d: %w", page, err)
		}

		var pageRepos []repoJSON
		if err := json.Unmarshal(body, &pageRepos); err != nil {
			return nil, fmt.Errorf("failed to decode repos page %d: %w", page, err)
		}
		if len(pageRepos) == 0 {
			break
		}

		for i := range pageRepos {
			repos = append(repos, pageRepos[i].toDomain())
		}
		c.log.Info("Fetched repository page", "page", page, "count", len(pageRepos), "total", len(repos))
	}

	return repos, nil
}

// GetRepo fetches a single repository by full name (owner/name).
func (c *Client) GetRepo(ctx context.Context, fullName string) (*domain.Repo, error) {
	body, err := c.get(ctx, "get_repo", fmt.Sprintf("%s/repos/%s", c.baseURL, fullName), "")
	if err != nil {
		return nil, err
	}

	var repo repoJSON
	if err := json.Unmarshal(body, &repo); err != nil {
		return nil, fmt.Errorf("failed to decode repo %s: %w", fullName, err)
	}
	return repo.toDomain(), nil
}

// GetReadme returns the decoded README body, or ErrNotFound when the
// repository has none.
func (c *Client) GetReadme(ctx context.Context, fullName string) (string, error) {
	body, err := c.get(ctx, "get_readme", fmt.Sprintf("%s/repos/%s/readme", c.baseURL, fullName), "")
	if err != nil {
		return "", err
	}

	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode readme payload for %s: %w", fullName, err)
	}

	// The API wraps base64 content at 60 columns.
	raw := strings.ReplaceAll(payload.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode readme content for %s: %w", fullName, err)
	}
	return string(decoded), nil
}

// GetTopics fetches the repository's topic list.
func (c *Client) GetTopics(ctx context.Context, fullName string) ([]string, error) {
	body, err := c.get(ctx, "get_topics",
		fmt.Sprintf("%s/repos/%s/topics", c.baseURL, fullName),
		"application/vnd.github.mercy-preview+json")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Names []string `json:"names"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode topics for %s: %w", fullName, err)
	}
	return payload.Names, nil
}

// get issues one GET and resolves quota denials in place: on exhaustion it
// pauses until reset plus margin, then re-issues the same request. Such
// waits are unbounded in count but never consume a retry attempt.
func (c *Client) get(ctx context.Context, operation, url, accept string) ([]byte, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "token "+c.token)
		}
		if accept != "" {
			req.Header.Set("Accept", accept)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.APICalls.WithLabelValues(operation, "error").Inc()
			return nil, fmt.Errorf("github request: %w", err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.APICalls.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

		rl := engine.ParseRateLimit(
			resp.StatusCode,
			resp.Header.Get("X-RateLimit-Remaining"),
			resp.Header.Get("X-RateLimit-Reset"),
		)
		if rl.Limited {
			if err := c.limiter.Pause(ctx, rl); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, URL: url}
		}
		if readErr != nil {
			return nil, fmt.Errorf("read response: %w", readErr)
		}
		return body, nil
	}
}

// repoJSON mirrors the wire shape. Description, language and topics are
// frequently null; pointers keep the decode tolerant.
type repoJSON struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description *string  `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Archived    bool     `json:"archived"`
	HTMLURL     string   `json:"html_url"`
}

func (r *repoJSON) toDomain() *domain.Repo {
	repo := &domain.Repo{
		Name:      r.Name,
		FullName:  r.FullName,
		Stars:     r.Stars,
		Forks:     r.Forks,
		Topics:    r.Topics,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Archived:  r.Archived,
		URL:       r.HTMLURL,
	}
	if r.Description != nil {
		repo.Description = *r.Description
	}
	if r.Language != nil {
		repo.Language = *r.Language
	}
	return repo
}
