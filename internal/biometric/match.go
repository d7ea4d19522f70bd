package biometric

import (
	"fmt"
	"math"
	"strings"
)

// SlotCount is the number of samples captured at enrollment.
const SlotCount = 5

// Tolerance is the largest distance, exclusive, still counted as a match.
const Tolerance = 0.4

// Template is the write-once set of enrolled embeddings for one user.
type Template struct {
	Slots [SlotCount]Embedding
}

// NewTemplate builds a template from exactly SlotCount embeddings.
func NewTemplate(embeddings []Embedding) (Template, error) {
	var t Template
	if len(embeddings) != SlotCount {
		return t, fmt.Errorf("template needs %d embeddings, got %d", SlotCount, len(embeddings))
	}
	for i, e := range embeddings {
		if err := e.Validate(); err != nil {
			return t, fmt.Errorf("slot %d: %w", i+1, err)
		}
		t.Slots[i] = e
	}
	return t, nil
}

// Enrolled reports whether the primary slot is populated.
func (t *Template) Enrolled() bool {
	return t != nil && len(t.Slots[0]) > 0
}

// Outcome is the result of a match decision.
type Outcome string

const (
	OutcomeNoTemplate     Outcome = "no_template"
	OutcomeNoFaceDetected Outcome = "no_face_detected"
	OutcomeMatched        Outcome = "matched"
	OutcomeNotMatched     Outcome = "not_matched"
)

// Strategy selects which template slots take part in a decision.
type Strategy string

const (
	// StrategyPrimary compares against slot 1 only.
	StrategyPrimary Strategy = "primary"
	// StrategyMinimum compares against every populated slot and keeps the closest.
	StrategyMinimum Strategy = "min"
)

// ParseStrategy maps a config value to a Strategy; unknown values fall back to primary.
func ParseStrategy(value string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case StrategyMinimum, "minimum", "all":
		return StrategyMinimum
	default:
		return StrategyPrimary
	}
}

// MatchResult describes a single decision. Slot is 1-based and zero when no
// slot was compared.
type MatchResult struct {
	Outcome  Outcome
	Distance float64
	Slot     int
}

// Matched reports whether the decision accepts the live face.
func (r MatchResult) Matched() bool {
	return r.Outcome == OutcomeMatched
}

// Matcher renders match decisions. The zero value uses Tolerance and StrategyPrimary.
type Matcher struct {
	Tolerance float64
	Strategy  Strategy
}

// NewMatcher returns a Matcher, substituting the default tolerance for non-positive values.
func NewMatcher(tolerance float64, strategy Strategy) Matcher {
	if tolerance <= 0 {
		tolerance = Tolerance
	}
	if strategy == "" {
		strategy = StrategyPrimary
	}
	return Matcher{Tolerance: tolerance, Strategy: strategy}
}

// Match compares a live embedding against a stored template. It has no side
// effects and returns identical results for identical inputs.
func (m Matcher) Match(live Embedding, tmpl *Template) MatchResult {
	if !tmpl.Enrolled() {
		return MatchResult{Outcome: OutcomeNoTemplate}
	}
	if len(live) == 0 {
		return MatchResult{Outcome: OutcomeNoFaceDetected}
	}

	tolerance := m.Tolerance
	if tolerance <= 0 {
		tolerance = Tolerance
	}

	slots := tmpl.Slots[:1]
	if m.Strategy == StrategyMinimum {
		slots = tmpl.Slots[:]
	}

	best := MatchResult{Outcome: OutcomeNotMatched, Distance: math.Inf(1)}
	for i, slot := range slots {
		if len(slot) == 0 {
			continue
		}
		d, err := Distance(live, slot)
		if err != nil {
			continue
		}
		if d < best.Distance {
			best.Distance = d
			best.Slot = i + 1
		}
	}
	if best.Slot != 0 && best.Distance < tolerance {
		best.Outcome = OutcomeMatched
	}
	return best
}
