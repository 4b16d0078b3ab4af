package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isdelr/devconnector-be/internal/common"
)

var ErrNoGitHubProfile = common.E(common.ErrNotFound, "No Github profile found")

// GitHubServiceProvider lists public repositories of a code-hosting user.
type GitHubServiceProvider interface {
	GetRepos(ctx context.Context, username string) (json.RawMessage, error)
}

// GitHubService proxies the GitHub repository listing API.
type GitHubService struct {
	client       *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

// NewGitHubService creates a new GitHubService. Empty credentials issue anonymous requests.
func NewGitHubService(baseURL, clientID, clientSecret string) *GitHubService {
	return &GitHubService{
		client:       &http.Client{Timeout: 10 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// GetRepos returns the five most recently created repositories of username,
// passing the upstream body through unchanged.
func (s *GitHubService) GetRepos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNoGitHubProfile
	}

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", s.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("User-Agent", "devconnector-be")
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.clientID != "" {
		req.SetBasicAuth(s.clientID, s.clientSecret)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoGitHubProfile
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON from github", common.ErrUpstreamUnavailable)
	}
	return json.RawMessage(body), nil
}
