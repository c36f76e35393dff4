// Package job defines the structured job-requirement record the ranking
// engine consumes. Producing it from a raw job description is the JD parser's
// concern and stays outside this module.
package job

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seniority is an informational weighting hint; it does not change scoring.
type Seniority string

const (
	SeniorityUnknown Seniority = ""
	SeniorityJunior  Seniority = "junior"
	SeniorityMid     Seniority = "mid"
	SenioritySenior  Seniority = "senior"
	SeniorityStaff   Seniority = "staff"
)

// ParseSeniority normalizes a seniority token. Unknown values are an error so
// typos in job files surface at load time.
func ParseSeniority(s string) (Seniority, error) {
	switch Seniority(strings.ToLower(strings.TrimSpace(s))) {
	case SeniorityUnknown:
		return SeniorityUnknown, nil
	case SeniorityJunior:
		return SeniorityJunior, nil
	case SeniorityMid:
		return SeniorityMid, nil
	case SenioritySenior:
		return SenioritySenior, nil
	case SeniorityStaff:
		return SeniorityStaff, nil
	default:
		return SeniorityUnknown, fmt.Errorf("unknown seniority level: %q", s)
	}
}

// Requirement is the parsed job requirement record.
type Requirement struct {
	Title               string    `yaml:"title"`
	RequiredSkills      []string  `yaml:"required_skills"`
	PreferredSkills     []string  `yaml:"preferred_skills"`
	Domain              string    `yaml:"domain"`
	LocationPreferences []string  `yaml:"location_preferences"`
	Seniority           Seniority `yaml:"seniority"`
}

// Load reads a job requirement file.
func Load(path string) (*Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file %q: %w", path, err)
	}

	var requirement Requirement
	if err := yaml.Unmarshal(data, &requirement); err != nil {
		return nil, fmt.Errorf("parsing job file %q: %w", path, err)
	}

	seniority, err := ParseSeniority(string(requirement.Seniority))
	if err != nil {
		return nil, fmt.Errorf("job file %q: %w", path, err)
	}
	requirement.Seniority = seniority

	requirement.RequiredSkills = cleanList(requirement.RequiredSkills)
	requirement.PreferredSkills = cleanList(requirement.PreferredSkills)
	requirement.LocationPreferences = cleanList(requirement.LocationPreferences)
	requirement.Domain = strings.TrimSpace(requirement.Domain)

	return &requirement, nil
}

func cleanList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			result = append(result, value)
		}
	}
	return result
}
