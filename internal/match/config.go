package match

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/geo.yaml
var defaultGeoYAML []byte

// ConfigError reports a broken or missing data file. It indicates a
// deployment problem and should abort startup rather than degrade per-request.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("geo config: %v", e.Err)
	}
	return fmt.Sprintf("geo config %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// StateInfo describes a known state or province.
type StateInfo struct {
	Country string   `yaml:"country"`
	Cities  []string `yaml:"cities"`
}

// GeoData holds the alias tables and city database the location parser works
// against. All keys and entries are stored lowercase. Loaded once at startup;
// reload is not supported.
type GeoData struct {
	// Countries maps every accepted spelling to the canonical country name.
	Countries map[string]string `yaml:"countries"`
	// States maps the canonical state name to its country and known cities.
	States map[string]StateInfo `yaml:"states"`
	// CityAliases maps common variants (nicknames, old names, abbreviations)
	// to the canonical city name.
	CityAliases map[string]string `yaml:"city_aliases"`
	// Cities is the known-city database.
	Cities []string `yaml:"cities"`
}

// LoadGeoData reads geo data from path, or the embedded defaults when path is
// empty.
func LoadGeoData(path string) (*GeoData, error) {
	raw := defaultGeoYAML
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
		raw = data
	}

	var geo GeoData
	if err := yaml.Unmarshal(raw, &geo); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	geo.lower()

	if len(geo.Cities) == 0 {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("city database is empty")}
	}
	if len(geo.Countries) == 0 {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("country table is empty")}
	}

	return &geo, nil
}

func (g *GeoData) lower() {
	countries := make(map[string]string, len(g.Countries))
	for alias, canonical := range g.Countries {
		countries[strings.ToLower(strings.TrimSpace(alias))] = strings.ToLower(strings.TrimSpace(canonical))
	}
	g.Countries = countries

	states := make(map[string]StateInfo, len(g.States))
	for name, info := range g.States {
		info.Country = strings.ToLower(strings.TrimSpace(info.Country))
		for i, city := range info.Cities {
			info.Cities[i] = strings.ToLower(strings.TrimSpace(city))
		}
		states[strings.ToLower(strings.TrimSpace(name))] = info
	}
	g.States = states

	aliases := make(map[string]string, len(g.CityAliases))
	for variant, canonical := range g.CityAliases {
		aliases[strings.ToLower(strings.TrimSpace(variant))] = strings.ToLower(strings.TrimSpace(canonical))
	}
	g.CityAliases = aliases

	for i, city := range g.Cities {
		g.Cities[i] = strings.ToLower(strings.TrimSpace(city))
	}
}

// knownCity reports whether name is in the city database.
func (g *GeoData) knownCity(name string) bool {
	for _, city := range g.Cities {
		if city == name {
			return true
		}
	}
	return false
}

// stateForCity returns the canonical state containing the given city, if any.
func (g *GeoData) stateForCity(city string) (string, StateInfo, bool) {
	for name, info := range g.States {
		for _, known := range info.Cities {
			if known == city {
				return name, info, true
			}
		}
	}
	return "", StateInfo{}, false
}
