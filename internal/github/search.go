package github

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/octosourcer/octosourcer/internal/utils"
	"go.uber.org/zap"
)

const (
	searchUsersPath = "/search/users"
	usersPath       = "/users"
)

// ErrNotFound is returned for 404 responses, e.g. deleted accounts.
var ErrNotFound = errors.New("not found")

// SearchParams describe a candidate search derived from job requirements.
type SearchParams struct {
	Keywords     []string `yaml:"keywords"`
	Languages    []string `yaml:"languages"`
	Location     string   `yaml:"location"`
	MinFollowers int      `yaml:"min_followers" mapstructure:"min_followers"`
	MinRepos     int      `yaml:"min_repos" mapstructure:"min_repos"`
	MaxPages     int      `yaml:"max_pages" mapstructure:"max_pages"`
}

// BuildQuery renders the params as a GitHub search qualifier string.
func (p *SearchParams) BuildQuery() string {
	var parts []string

	for _, keyword := range p.Keywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			parts = append(parts, keyword)
		}
	}

	for _, language := range p.Languages {
		if language = strings.TrimSpace(language); language != "" {
			parts = append(parts, fmt.Sprintf("language:%s", language))
		}
	}

	if location := strings.TrimSpace(p.Location); location != "" {
		if strings.Contains(location, " ") {
			parts = append(parts, fmt.Sprintf("location:%q", location))
		} else {
			parts = append(parts, fmt.Sprintf("location:%s", location))
		}
	}

	if p.MinFollowers > 0 {
		parts = append(parts, fmt.Sprintf("followers:>=%d", p.MinFollowers))
	}

	if p.MinRepos > 0 {
		parts = append(parts, fmt.Sprintf("repos:>=%d", p.MinRepos))
	}

	parts = append(parts, "type:user")

	return strings.Join(parts, " ")
}

// SearchUsers returns the usernames matching the search params.
func (c *Client) SearchUsers(params *SearchParams) ([]string, error) {
	q := url.Values{}
	q.Set("q", params.BuildQuery())
	q.Set("sort", "followers")
	q.Set("order", "desc")

	items, err := c.searchItems(searchUsersPath, q, params.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	var users []struct {
		Login string `json:"login"`
	}
	if err := decodeItems(items, &users); err != nil {
		return nil, fmt.Errorf("decode user search items: %w", err)
	}

	logins := make([]string, 0, len(users))
	for _, user := range users {
		if user.Login != "" {
			logins = append(logins, user.Login)
		}
	}

	c.logger.Info("user search finished", zap.Int("count", len(logins)))

	return logins, nil
}

type userProfile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
	CreatedAt   string `json:"created_at"`
}

type repoItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Fork        bool     `json:"fork"`
}

// FetchCandidate assembles a full candidate snapshot: profile attributes,
// top repositories and starred-repo topics.
func (c *Client) FetchCandidate(login string) (*Candidate, error) {
	var profile userProfile
	if err := c.getJSON(fmt.Sprintf("%s/%s", usersPath, login), nil, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", login, err)
	}

	repos, err := c.fetchRepos(login)
	if err != nil {
		return nil, fmt.Errorf("fetch repos %s: %w", login, err)
	}

	starredTopics, err := c.fetchStarredTopics(login)
	if err != nil {
		// Starred repos are a weak corroborating signal only; a candidate
		// without them is still scoreable.
		c.logger.Debug("fetching starred repos failed",
			zap.String("username", login),
			zap.Error(err),
		)
	}

	contributions, err := c.fetchContributions(login)
	if err != nil {
		// Same rule as starred repos: the activity proxy degrades to zero
		// instead of failing the whole fetch.
		c.logger.Debug("fetching public events failed",
			zap.String("username", login),
			zap.Error(err),
		)
	}

	c.fetchTopRepoDependencies(login, repos)

	languages := make([]string, 0, len(repos))
	for _, repo := range repos {
		languages = append(languages, repo.Languages...)
	}

	return NewCandidate(profile.Login, Candidate{
		Name:           profile.Name,
		Bio:            profile.Bio,
		Location:       profile.Location,
		Followers:      profile.Followers,
		PublicRepos:    profile.PublicRepos,
		AccountAgeDays: accountAgeDays(profile.CreatedAt),
		Contributions:  contributions,
		TopRepos:       repos,
		Languages:      languages,
		StarredTopics:  starredTopics,
	}), nil
}

// FetchCandidates fetches up to limit candidates, skipping ones that
// disappeared between search and fetch.
func (c *Client) FetchCandidates(logins []string, limit int) (*Candidates, error) {
	if limit <= 0 || limit > len(logins) {
		limit = len(logins)
	}

	candidates := &Candidates{Items: make([]*Candidate, 0, limit)}
	for i, login := range logins[:limit] {
		if i > 0 {
			if err := utils.WaitFor(c.ctx, c.FetchDelay); err != nil {
				return nil, err
			}
		}

		candidate, err := c.FetchCandidate(login)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.logger.Debug("candidate disappeared, skipping", zap.String("username", login))
				continue
			}
			return nil, err
		}
		candidates.Items = append(candidates.Items, candidate)
	}

	return candidates, nil
}

func (c *Client) fetchRepos(login string) ([]Repository, error) {
	q := url.Values{}
	q.Set("per_page", "100")
	q.Set("type", "owner")

	var items []repoItem
	if err := c.getJSON(fmt.Sprintf("%s/%s/repos", usersPath, login), q, &items); err != nil {
		return nil, err
	}

	repos := make([]Repository, 0, len(items))
	for _, item := range items {
		if item.Fork {
			continue
		}
		repo := Repository{
			Name:        item.Name,
			Description: item.Description,
			Stars:       item.Stars,
			Forks:       item.Forks,
			Topics:      item.Topics,
		}
		if item.Language != "" {
			repo.Languages = []string{item.Language}
		}
		repos = append(repos, repo)
	}

	return repos, nil
}

// eventItem is the slice of a public event the contribution proxy reads:
// pushes and how many commits each carried.
type eventItem struct {
	Type    string `json:"type"`
	Payload struct {
		Size int `json:"size"`
	} `json:"payload"`
}

// fetchContributions approximates recent contribution volume by summing the
// commits behind the pushes in the public event feed. The feed only covers
// the last ~90 days, so this undercounts; the activity scorer treats it as a
// relative signal, not a total.
func (c *Client) fetchContributions(login string) (int, error) {
	q := url.Values{}
	q.Set("per_page", "100")

	var items []eventItem
	if err := c.getJSON(fmt.Sprintf("%s/%s/events/public", usersPath, login), q, &items); err != nil {
		return 0, err
	}

	total := 0
	for _, item := range items {
		if item.Type != "PushEvent" {
			continue
		}
		size := item.Payload.Size
		if size <= 0 {
			size = 1
		}
		total += size
	}

	return total, nil
}

// sbomResponse is the SPDX envelope of the dependency-graph SBOM export.
type sbomResponse struct {
	SBOM struct {
		Packages []struct {
			Name string `json:"name"`
		} `json:"packages"`
	} `json:"sbom"`
}

// fetchTopRepoDependencies fills in manifest dependencies for the starred-most
// repositories in place. Repositories without a dependency graph (disabled or
// empty) are left as-is; losing this signal must not fail the candidate.
func (c *Client) fetchTopRepoDependencies(login string, repos []Repository) {
	sort.SliceStable(repos, func(i, j int) bool { return repos[i].Stars > repos[j].Stars })

	limit := len(repos)
	if limit > MaxTopRepos {
		limit = MaxTopRepos
	}

	for i := range repos[:limit] {
		deps, err := c.fetchDependencies(login, repos[i].Name)
		if err != nil {
			c.logger.Debug("fetching dependency manifest failed",
				zap.String("username", login),
				zap.String("repo", repos[i].Name),
				zap.Error(err),
			)
			continue
		}
		repos[i].Dependencies = deps
	}
}

func (c *Client) fetchDependencies(login, repo string) ([]string, error) {
	var response sbomResponse
	path := fmt.Sprintf("/repos/%s/%s/dependency-graph/sbom", login, repo)
	if err := c.getJSON(path, nil, &response); err != nil {
		return nil, err
	}

	var deps []string
	for _, pkg := range response.SBOM.Packages {
		if name := packageBaseName(pkg.Name); name != "" {
			deps = append(deps, name)
		}
	}

	return deps, nil
}

// packageBaseName reduces an ecosystem-prefixed SPDX package name, such as
// "go:github.com/gin-gonic/gin" or "pip:django", to its bare final element.
func packageBaseName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

func (c *Client) fetchStarredTopics(login string) ([]string, error) {
	q := url.Values{}
	q.Set("per_page", "100")

	var items []repoItem
	if err := c.getJSON(fmt.Sprintf("%s/%s/starred", usersPath, login), q, &items); err != nil {
		return nil, err
	}

	var topics []string
	for _, item := range items {
		topics = append(topics, item.Topics...)
	}

	return topics, nil
}

// decodeItems converts loosely-typed API items into a typed slice using the
// json field tags.
func decodeItems(items []Item, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(items)
}

func accountAgeDays(createdAt string) int {
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return 0
	}
	age := int(time.Since(created).Hours() / 24)
	if age < 0 {
		age = 0
	}
	return age
}
