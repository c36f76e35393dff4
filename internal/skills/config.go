package skills

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/skills.yaml
var defaultSkillsYAML []byte

// ConfigError reports a broken or missing skill alias file. Like geo data,
// this is a deployment problem and aborts startup.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("skill config: %v", e.Err)
	}
	return fmt.Sprintf("skill config %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type aliasFile struct {
	Skills map[string][]string `yaml:"skills"`
}

// AliasTable maps skill variants to canonical display names. Loaded once at
// startup and never reloaded.
type AliasTable struct {
	byVariant map[string]string
}

// LoadAliases reads the skill alias config from path, or the embedded
// defaults when path is empty.
func LoadAliases(path string) (*AliasTable, error) {
	raw := defaultSkillsYAML
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
		raw = data
	}

	var file aliasFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	table := &AliasTable{byVariant: make(map[string]string)}
	for canonical, variants := range file.Skills {
		canonical = strings.TrimSpace(canonical)
		if canonical == "" {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("skill with empty canonical name")}
		}
		table.byVariant[strings.ToLower(canonical)] = canonical
		for _, variant := range variants {
			variant = strings.ToLower(strings.TrimSpace(variant))
			if variant == "" {
				continue
			}
			table.byVariant[variant] = canonical
		}
	}

	return table, nil
}
