package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const githubTimeout = 30 * time.Second

// GitHubLoader fetches a user's public repositories and their READMEs.
type GitHubLoader struct {
	client *gh.Client
	user   string
}

// NewGitHubLoader builds a loader for the given user. An empty token falls
// back to unauthenticated access (lower rate limits).
func NewGitHubLoader(token, user string) *GitHubLoader {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = githubTimeout

	return &GitHubLoader{
		client: gh.NewClient(httpClient),
		user:   user,
	}
}

// FetchRepos lists the user's repositories, skipping forks, archived repos,
// and repos without a README. A failed README fetch skips that one repo
// rather than failing the whole listing.
func (l *GitHubLoader) FetchRepos(ctx context.Context) ([]Repo, error) {
	var all []*gh.Repository
	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	for {
		repos, resp, err := l.client.Repositories.ListByUser(ctx, l.user, opts)
		if err != nil {
			return nil, fmt.Errorf("list repos for %s: %w", l.user, err)
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	var out []Repo
	for _, r := range all {
		if r.GetFork() || r.GetArchived() || r.GetDisabled() {
			continue
		}

		readme, err := l.fetchReadme(ctx, r.GetName())
		if err != nil {
			slog.Warn("skipping repo without readable README", "repo", r.GetName(), "error", err)
			continue
		}

		out = append(out, Repo{
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Language:    r.GetLanguage(),
			Stars:       r.GetStargazersCount(),
			Topics:      r.Topics,
			Readme:      readme,
			UpdatedAt:   r.GetUpdatedAt().Time,
		})
	}
	return out, nil
}

func (l *GitHubLoader) fetchReadme(ctx context.Context, repo string) (string, error) {
	content, _, err := l.client.Repositories.GetReadme(ctx, l.user, repo, nil)
	if err != nil {
		return "", fmt.Errorf("get readme: %w", err)
	}
	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme: %w", err)
	}
	return text, nil
}
