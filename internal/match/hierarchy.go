package match

import (
	"errors"
	"fmt"
)

// MatchLevel identifies the most specific geographic level a location was
// matched or parsed at.
type MatchLevel string

const (
	LevelNone    MatchLevel = ""
	LevelCity    MatchLevel = "city"
	LevelState   MatchLevel = "state"
	LevelCountry MatchLevel = "country"
)

// MatchedVia values record how a hierarchy was resolved. Each carries a fixed
// confidence band; construction fails when the confidence falls outside it.
const (
	ViaNone         = ""
	ViaRemote       = "remote"
	ViaCityExact    = "city_exact"
	ViaCityFuzzy    = "city_fuzzy"
	ViaCityGuess    = "city_guess"
	ViaStateExact   = "state_exact"
	ViaCountryExact = "country_exact"
)

// ErrInvalidHierarchy marks a broken location-hierarchy invariant. It is a
// construction-time bug signal, never a per-candidate runtime condition.
var ErrInvalidHierarchy = errors.New("invalid location hierarchy")

// LocationHierarchy is the structured decomposition of a free-text location.
// Instances are built once by the parser and never mutated.
type LocationHierarchy struct {
	OriginalText    string
	City            string
	State           string
	Country         string
	MatchConfidence float64
	MatchLevel      MatchLevel
	MatchedVia      string
}

type confidenceBand struct {
	min float64
	max float64
	// maxExclusive marks bands whose upper bound must not be reached,
	// e.g. a fuzzy city match can never claim the exact-match confidence.
	maxExclusive bool
}

var viaBands = map[string]confidenceBand{
	ViaNone:         {min: 0.0, max: 0.0},
	ViaRemote:       {min: 1.0, max: 1.0},
	ViaCityExact:    {min: 0.95, max: 1.0},
	ViaCityFuzzy:    {min: 0.5, max: 1.0, maxExclusive: true},
	ViaCityGuess:    {min: 0.3, max: 0.75},
	ViaStateExact:   {min: 0.60, max: 0.80},
	ViaCountryExact: {min: 0.30, max: 0.50},
}

// NewLocationHierarchy validates tier consistency at construction time.
// A confidence outside [0, 1] or outside the band implied by matchedVia is an
// error, never silently clamped.
func NewLocationHierarchy(original, city, state, country string, confidence float64, level MatchLevel, matchedVia string) (*LocationHierarchy, error) {
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %.3f outside [0, 1]", ErrInvalidHierarchy, confidence)
	}

	band, ok := viaBands[matchedVia]
	if !ok {
		return nil, fmt.Errorf("%w: unknown matched_via %q", ErrInvalidHierarchy, matchedVia)
	}

	if confidence < band.min || confidence > band.max || (band.maxExclusive && confidence == band.max) {
		return nil, fmt.Errorf("%w: confidence %.3f inconsistent with matched_via %q", ErrInvalidHierarchy, confidence, matchedVia)
	}

	return &LocationHierarchy{
		OriginalText:    original,
		City:            city,
		State:           state,
		Country:         country,
		MatchConfidence: confidence,
		MatchLevel:      level,
		MatchedVia:      matchedVia,
	}, nil
}
