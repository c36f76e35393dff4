package match

import (
	"errors"
	"testing"
)

func TestNewLocationHierarchyValidBands(t *testing.T) {
	tests := []struct {
		via        string
		confidence float64
	}{
		{ViaNone, 0.0},
		{ViaRemote, 1.0},
		{ViaCityExact, 0.95},
		{ViaCityExact, 1.0},
		{ViaCityFuzzy, 0.5},
		{ViaCityFuzzy, 0.94},
		{ViaCityGuess, 0.5},
		{ViaStateExact, 0.7},
		{ViaCountryExact, 0.4},
	}

	for _, tt := range tests {
		if _, err := NewLocationHierarchy("x", "", "", "", tt.confidence, LevelNone, tt.via); err != nil {
			t.Fatalf("via %q confidence %v: unexpected error %v", tt.via, tt.confidence, err)
		}
	}
}

func TestNewLocationHierarchyRejectsInconsistentConfidence(t *testing.T) {
	tests := []struct {
		name       string
		via        string
		confidence float64
	}{
		{name: "state exact claiming city confidence", via: ViaStateExact, confidence: 0.95},
		{name: "fuzzy city claiming exact confidence", via: ViaCityFuzzy, confidence: 1.0},
		{name: "guess above band", via: ViaCityGuess, confidence: 0.9},
		{name: "country above band", via: ViaCountryExact, confidence: 0.7},
		{name: "remote below full", via: ViaRemote, confidence: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocationHierarchy("x", "", "", "", tt.confidence, LevelNone, tt.via)
			if !errors.Is(err, ErrInvalidHierarchy) {
				t.Fatalf("expected ErrInvalidHierarchy, got %v", err)
			}
		})
	}
}

func TestNewLocationHierarchyRejectsOutOfRange(t *testing.T) {
	for _, confidence := range []float64{-0.1, 1.2} {
		if _, err := NewLocationHierarchy("x", "", "", "", confidence, LevelNone, ViaNone); !errors.Is(err, ErrInvalidHierarchy) {
			t.Fatalf("confidence %v: expected ErrInvalidHierarchy, got %v", confidence, err)
		}
	}
}

func TestNewLocationHierarchyRejectsUnknownVia(t *testing.T) {
	if _, err := NewLocationHierarchy("x", "", "", "", 0.5, LevelCity, "satellite"); !errors.Is(err, ErrInvalidHierarchy) {
		t.Fatalf("expected ErrInvalidHierarchy, got %v", err)
	}
}
