package github

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxTopRepos bounds the repository list carried on a candidate. The data
// source only exposes a top-N view; anything beyond it is silently dropped.
const MaxTopRepos = 5

// Repository is one of a candidate's top repositories.
type Repository struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description,omitempty"`
	Stars        int      `json:"stargazers_count" yaml:"stars"`
	Forks        int      `json:"forks_count" yaml:"forks"`
	Languages    []string `json:"languages" yaml:"languages,omitempty"`
	Topics       []string `json:"topics" yaml:"topics,omitempty"`
	Dependencies []string `json:"dependencies" yaml:"dependencies,omitempty"`
}

// Candidate is an immutable snapshot of a developer profile. It is
// constructed once per profile fetch and never mutated during a ranking pass.
type Candidate struct {
	Username       string       `yaml:"username"`
	Name           string       `yaml:"name,omitempty"`
	Bio            string       `yaml:"bio,omitempty"`
	Location       string       `yaml:"location,omitempty"`
	Followers      int          `yaml:"followers"`
	PublicRepos    int          `yaml:"public_repos"`
	AccountAgeDays int          `yaml:"account_age_days"`
	Contributions  int          `yaml:"contributions"`
	TopRepos       []Repository `yaml:"top_repos,omitempty"`
	Languages      []string     `yaml:"languages,omitempty"`
	StarredTopics  []string     `yaml:"starred_topics,omitempty"`
}

// NewCandidate builds a Candidate enforcing the construction invariants:
// repos are ordered by stars so truncation to MaxTopRepos keeps the most
// relevant ones, negative counters are floored at zero and the language list
// is deduplicated case-insensitively and sorted.
func NewCandidate(username string, profile Candidate) *Candidate {
	c := profile
	c.Username = username

	if c.Followers < 0 {
		c.Followers = 0
	}
	if c.PublicRepos < 0 {
		c.PublicRepos = 0
	}
	if c.AccountAgeDays < 0 {
		c.AccountAgeDays = 0
	}
	if c.Contributions < 0 {
		c.Contributions = 0
	}

	repos := make([]Repository, len(c.TopRepos))
	copy(repos, c.TopRepos)
	sort.SliceStable(repos, func(i, j int) bool { return repos[i].Stars > repos[j].Stars })
	if len(repos) > MaxTopRepos {
		repos = repos[:MaxTopRepos]
	}
	for i := range repos {
		if repos[i].Stars < 0 {
			repos[i].Stars = 0
		}
		if repos[i].Forks < 0 {
			repos[i].Forks = 0
		}
	}
	c.TopRepos = repos

	c.Languages = dedupeSorted(c.Languages)
	c.StarredTopics = dedupeSorted(c.StarredTopics)

	return &c
}

// TotalStars sums stars across the visible top repositories.
func (c *Candidate) TotalStars() int {
	total := 0
	for _, repo := range c.TopRepos {
		total += repo.Stars
	}
	return total
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, value)
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i]) < strings.ToLower(result[j])
	})
	return result
}

// Candidates is a list of fetched candidates with reporting helpers.
type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// FindByUsername returns the candidate with the given username, or nil.
func (c *Candidates) FindByUsername(username string) *Candidate {
	for _, candidate := range c.Items {
		if strings.EqualFold(candidate.Username, username) {
			return candidate
		}
	}
	return nil
}

// Usernames returns all candidate usernames in list order.
func (c *Candidates) Usernames() []string {
	names := make([]string, 0, c.Len())
	for _, candidate := range c.Items {
		names = append(names, candidate.Username)
	}
	return names
}

// ReportByLocation groups candidate usernames by their raw location string.
func (c *Candidates) ReportByLocation() map[string][]string {
	report := make(map[string][]string)
	for _, candidate := range c.Items {
		location := strings.TrimSpace(candidate.Location)
		if location == "" {
			location = "(not set)"
		}
		report[location] = append(report[location], candidate.Username)
	}
	return report
}

// DumpToTmpFile writes the candidate list as YAML to a temp file, returning
// its name.
func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "octosourcer-candidates-*.yaml")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer file.Close()

	data, err := yaml.Marshal(c.Items)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("write candidates: %w", err)
	}

	return file.Name(), nil
}
