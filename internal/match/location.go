package match

import (
	"strings"
)

// Fixed confidence points for hierarchical matching. Geographic specificity
// is rewarded monotonically: a coarser match never outranks a finer one.
const (
	cityMatchConfidence    = 1.0
	stateMatchConfidence   = 0.7
	countryMatchConfidence = 0.3

	// Threshold for treating two resolved locations as the same place.
	locationsMatchThreshold = 0.9
)

// LocationParser decomposes free-text locations into a city/state/country
// hierarchy using alias tables, a known-city database and fuzzy matching.
// It is state-free per call; the loaded geo data lives for the process
// lifetime.
type LocationParser struct {
	geo    *GeoData
	fuzzy  *FuzzyMatcher
	strict *FuzzyMatcher
}

// NewLocationParser creates a parser over the provided geo data.
func NewLocationParser(geo *GeoData) *LocationParser {
	return &LocationParser{
		geo:    geo,
		fuzzy:  NewFuzzyMatcher(DefaultFuzzyThreshold),
		strict: NewFuzzyMatcher(locationsMatchThreshold),
	}
}

// ParseLocation resolves text into a LocationHierarchy. It never rejects:
// unrecognized input degrades to a best-guess city. "remote" is a deliberate
// special case meaning "no geography constraint" and parses to an all-empty
// hierarchy with full confidence.
func (p *LocationParser) ParseLocation(text string) (*LocationHierarchy, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NewLocationHierarchy(text, "", "", "", 0.0, LevelNone, ViaNone)
	}

	if strings.EqualFold(trimmed, "remote") {
		return NewLocationHierarchy(text, "", "", "", 1.0, LevelNone, ViaRemote)
	}

	parts := splitParts(trimmed)

	switch {
	case len(parts) >= 3:
		city, via, confidence := p.normalizeCity(parts[0])
		state := parts[1]
		country := parts[2]
		if canonical, ok := p.geo.Countries[country]; ok {
			country = canonical
		}
		return NewLocationHierarchy(text, city, state, country, confidence, LevelCity, via)

	case len(parts) == 2:
		city, via, confidence := p.normalizeCity(parts[0])
		state, country := p.classifySecondPart(parts[1])
		return NewLocationHierarchy(text, city, state, country, confidence, LevelCity, via)

	default:
		return p.parseSinglePart(text, parts[0])
	}
}

// parseSinglePart classifies a lone token in strict order: known country,
// known state (auto-filling its country), known city (fuzzy), best-guess city.
func (p *LocationParser) parseSinglePart(original, token string) (*LocationHierarchy, error) {
	if canonical, ok := p.geo.Countries[token]; ok {
		return NewLocationHierarchy(original, "", "", canonical, 0.4, LevelCountry, ViaCountryExact)
	}

	if info, ok := p.geo.States[token]; ok {
		return NewLocationHierarchy(original, "", token, info.Country, 0.7, LevelState, ViaStateExact)
	}

	city, via, confidence := p.normalizeCity(token)
	state, country := "", ""
	if via != ViaCityGuess {
		if stateName, info, ok := p.geo.stateForCity(city); ok {
			state = stateName
			country = info.Country
		}
	}

	return NewLocationHierarchy(original, city, state, country, confidence, LevelCity, via)
}

// classifySecondPart decides whether the part after a city is a country or a
// state. Known states carry their country along.
func (p *LocationParser) classifySecondPart(part string) (state, country string) {
	if canonical, ok := p.geo.Countries[part]; ok {
		return "", canonical
	}

	if info, ok := p.geo.States[part]; ok {
		return part, info.Country
	}

	return part, ""
}

// normalizeCity maps a raw city token to its canonical name: exact alias or
// database hit first, then fuzzy lookup against the database and the alias
// variants, finally the input itself as a best guess.
func (p *LocationParser) normalizeCity(raw string) (city, via string, confidence float64) {
	token := normalize(raw)

	if canonical, ok := p.geo.CityAliases[token]; ok {
		return canonical, ViaCityExact, 1.0
	}

	if p.geo.knownCity(token) {
		return token, ViaCityExact, 1.0
	}

	if best, ok, score := p.fuzzy.FindBestMatch(token, p.geo.Cities); ok {
		return best, ViaCityFuzzy, fuzzyCityConfidence(score)
	}

	variants := make([]string, 0, len(p.geo.CityAliases))
	for variant := range p.geo.CityAliases {
		variants = append(variants, variant)
	}
	if best, ok, score := p.fuzzy.FindBestMatch(token, variants); ok {
		return p.geo.CityAliases[best], ViaCityFuzzy, fuzzyCityConfidence(score)
	}

	return token, ViaCityGuess, 0.5
}

// fuzzyCityConfidence scales a similarity score so a fuzzy hit always stays
// below exact-match confidence.
func fuzzyCityConfidence(similarity float64) float64 {
	confidence := similarity * 0.95
	if confidence >= 0.95 {
		confidence = 0.94
	}
	return confidence
}

// HierarchicalMatch compares a search location against a candidate location,
// trying the most specific level first. The level priority is strict: a city
// match always wins over state and country, whatever its raw similarity.
func (p *LocationParser) HierarchicalMatch(search, candidate *LocationHierarchy) (MatchLevel, float64) {
	if search == nil || candidate == nil {
		return LevelNone, 0.0
	}

	if search.City != "" && candidate.City != "" && p.locationsMatch(search.City, candidate.City) {
		return LevelCity, cityMatchConfidence
	}

	if search.State != "" && candidate.State != "" && p.locationsMatch(search.State, candidate.State) {
		return LevelState, stateMatchConfidence
	}

	if search.Country != "" && candidate.Country != "" && p.locationsMatch(search.Country, candidate.Country) {
		return LevelCountry, countryMatchConfidence
	}

	return LevelNone, 0.0
}

// locationsMatch accepts exact case-insensitive equality or a high-threshold
// fuzzy match.
func (p *LocationParser) locationsMatch(a, b string) bool {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true
	}
	matched, _ := p.strict.Match(a, b)
	return matched
}

func splitParts(s string) []string {
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		part = normalize(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, normalize(s))
	}
	return parts
}
