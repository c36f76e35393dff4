// Package skills aggregates per-candidate skill evidence from multiple
// weighted signals into confidence-scored skill records.
package skills

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/octosourcer/octosourcer/internal/github"
)

// Detection signal names. dependency_graph is the authoritative primary
// signal; the rest form the ensemble.
const (
	SignalDependencyGraph    = "dependency_graph"
	SignalRepositoryTopics   = "repository_topics"
	SignalRepositoryName     = "repository_name"
	SignalBioMention         = "bio_mention"
	SignalRepositoryLanguage = "repository_language"
	SignalStarredRepos       = "starred_repos"
)

// Fixed per-signal base weights. Not configurable per call.
var signalWeights = map[string]float64{
	SignalDependencyGraph:    0.85,
	SignalRepositoryTopics:   0.65,
	SignalRepositoryName:     0.60,
	SignalBioMention:         0.55,
	SignalRepositoryLanguage: 0.5,
	SignalStarredRepos:       0.35,
}

// Per-occurrence increments for signals that accumulate across repos.
var signalIncrements = map[string]float64{
	SignalRepositoryTopics:   0.2,
	SignalRepositoryName:     0.2,
	SignalRepositoryLanguage: 0.15,
}

const (
	// DefaultMaxRepos bounds how many repositories are inspected per
	// candidate. Repos are pre-sorted by stars so truncation keeps the most
	// relevant ones.
	DefaultMaxRepos = 15
	// DefaultMinConfidence drops skills the evidence cannot support.
	DefaultMinConfidence = 0.5

	ensembleBoostStep = 0.15
	ensembleBoostCap  = 1.5
)

// ErrInvalidSkillConfidence marks a broken SkillConfidence invariant.
var ErrInvalidSkillConfidence = errors.New("invalid skill confidence")

// SkillConfidence is one detected skill with its supporting evidence.
// Never mutated after creation.
type SkillConfidence struct {
	Skill            string
	Confidence       float64
	Signals          []string
	SignalWeights    map[string]float64
	PrimaryDetection bool
}

// NewSkillConfidence validates the record invariants at construction.
func NewSkillConfidence(skill string, confidence float64, weights map[string]float64, primary bool) (*SkillConfidence, error) {
	if strings.TrimSpace(skill) == "" {
		return nil, fmt.Errorf("%w: empty skill name", ErrInvalidSkillConfidence)
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %.3f outside [0, 1]", ErrInvalidSkillConfidence, confidence)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no contributing signals", ErrInvalidSkillConfidence)
	}

	_, hasPrimary := weights[SignalDependencyGraph]
	if primary != hasPrimary {
		return nil, fmt.Errorf("%w: primary flag inconsistent with signal set", ErrInvalidSkillConfidence)
	}

	signals := make([]string, 0, len(weights))
	copied := make(map[string]float64, len(weights))
	for signal, weight := range weights {
		signals = append(signals, signal)
		copied[signal] = weight
	}
	sort.Strings(signals)

	return &SkillConfidence{
		Skill:            skill,
		Confidence:       confidence,
		Signals:          signals,
		SignalWeights:    copied,
		PrimaryDetection: primary,
	}, nil
}

// Detector extracts confidence-scored skills from a candidate profile.
// State-free per call.
type Detector struct {
	aliases       *AliasTable
	maxRepos      int
	minConfidence float64
}

// NewDetector creates a detector. Non-positive maxRepos or minConfidence fall
// back to the defaults.
func NewDetector(aliases *AliasTable, maxRepos int, minConfidence float64) *Detector {
	if maxRepos <= 0 {
		maxRepos = DefaultMaxRepos
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Detector{
		aliases:       aliases,
		maxRepos:      maxRepos,
		minConfidence: minConfidence,
	}
}

// Aliases exposes the normalization table for callers that need to
// canonicalize skill tokens the same way detection does.
func (d *Detector) Aliases() *AliasTable { return d.aliases }

// Detect aggregates skill evidence from the candidate's repositories, bio and
// starred-repo topics. Results are ordered by confidence descending, then
// skill name, so repeated runs over the same profile are identical.
func (d *Detector) Detect(bio string, repos []github.Repository, starredTopics []string) []*SkillConfidence {
	evidence := make(map[string]map[string]float64)

	sorted := make([]github.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stars > sorted[j].Stars })
	if len(sorted) > d.maxRepos {
		sorted = sorted[:d.maxRepos]
	}

	for _, repo := range sorted {
		d.collectRepoEvidence(evidence, repo)
	}

	d.collectTextEvidence(evidence, bio, SignalBioMention)

	for _, topic := range starredTopics {
		if skill, ok := d.aliases.lookupSkill(topic); ok {
			setOnce(evidence, skill, SignalStarredRepos)
		}
	}

	results := make([]*SkillConfidence, 0, len(evidence))
	for skill, weights := range evidence {
		confidence, primary := aggregateConfidence(weights)
		if confidence < d.minConfidence {
			continue
		}
		record, err := NewSkillConfidence(skill, confidence, weights, primary)
		if err != nil {
			// Aggregation produced the weights, so this is unreachable
			// short of a programming error.
			continue
		}
		results = append(results, record)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Skill < results[j].Skill
	})

	return results
}

func (d *Detector) collectRepoEvidence(evidence map[string]map[string]float64, repo github.Repository) {
	for _, dependency := range repo.Dependencies {
		if skill, ok := d.aliases.lookupSkill(dependency); ok {
			setOnce(evidence, skill, SignalDependencyGraph)
		}
	}

	for _, topic := range repo.Topics {
		if skill, ok := d.aliases.lookupSkill(topic); ok {
			accumulate(evidence, skill, SignalRepositoryTopics)
		}
	}

	name := tokenizeText(repo.Name)
	for keyword, skill := range d.aliases.knownKeywords() {
		if containsPhrase(name, keyword) {
			accumulate(evidence, skill, SignalRepositoryName)
		}
	}

	for _, lang := range repo.Languages {
		skill := d.aliases.NormalizeSkill(lang)
		if skill != "" {
			accumulate(evidence, skill, SignalRepositoryLanguage)
		}
	}

	d.collectTextEvidence(evidence, repo.Description, SignalRepositoryTopics)
}

// collectTextEvidence applies keyword/phrase matching to free text,
// contributing the signal's base weight once per skill.
func (d *Detector) collectTextEvidence(evidence map[string]map[string]float64, text, signal string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	tokenized := tokenizeText(text)
	for keyword, skill := range d.aliases.knownKeywords() {
		if containsPhrase(tokenized, keyword) {
			setOnce(evidence, skill, signal)
		}
	}
}

// setOnce records a signal at its base weight without accumulation.
func setOnce(evidence map[string]map[string]float64, skill, signal string) {
	weights := evidence[skill]
	if weights == nil {
		weights = make(map[string]float64)
		evidence[skill] = weights
	}
	if _, ok := weights[signal]; !ok {
		weights[signal] = signalWeights[signal]
	}
}

// accumulate records a signal at its base weight on first sight and raises it
// by the signal's increment on every repeated occurrence, capped at 1.0.
// Repeated evidence across repos therefore increases confidence.
func accumulate(evidence map[string]map[string]float64, skill, signal string) {
	weights := evidence[skill]
	if weights == nil {
		weights = make(map[string]float64)
		evidence[skill] = weights
	}

	current, ok := weights[signal]
	if !ok {
		weights[signal] = signalWeights[signal]
		return
	}

	next := current + signalIncrements[signal]
	if next > 1.0 {
		next = 1.0
	}
	weights[signal] = next
}

// aggregateConfidence implements the primary-vs-ensemble model: a
// dependency-graph hit is authoritative and short-circuits any boosting;
// otherwise corroborating signals raise the summed weight by up to 1.5x,
// capped at 1.0.
func aggregateConfidence(weights map[string]float64) (confidence float64, primary bool) {
	if weight, ok := weights[SignalDependencyGraph]; ok {
		return weight, true
	}

	var sum float64
	for _, weight := range weights {
		sum += weight
	}

	boost := 1 + float64(len(weights)-1)*ensembleBoostStep
	if boost > ensembleBoostCap {
		boost = ensembleBoostCap
	}

	confidence = sum * boost
	if confidence > 1.0 {
		confidence = 1.0
	}

	return confidence, false
}
