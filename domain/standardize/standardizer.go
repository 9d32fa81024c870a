// Package standardize maps free-text lipid names onto a canonical reference
// nomenclature. Matching is exact after canonicalization; ambiguous or
// partial matches are reported as failures, never guessed.
package standardize

import (
	"regexp"
	"strings"
	"sync"

	"lipidflow/ports"
)

// ReasonNoMatch is the failure reason when the canonical form has no entry
// in the reference vocabulary.
const ReasonNoMatch = "no exact match"

// ReasonEmptyName is the failure reason for blank input.
const ReasonEmptyName = "empty name"

// Result reports the outcome of standardizing one raw name
type Result struct {
	OK               bool   `json:"ok"`
	StandardizedName string `json:"standardized_name,omitempty"`
	ReferenceID      string `json:"reference_id,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	delimSpacing  = regexp.MustCompile(`\s*([():/])\s*`)
	bareChain     = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*) (\d.*)$`)
	classPrefix   = regexp.MustCompile(`^[A-Za-z]+`)
)

// Canonicalize reduces a raw lipid name to its canonical shorthand form:
// whitespace is trimmed and collapsed, spacing around structural delimiters
// is removed, a bare chain descriptor is wrapped in parentheses
// ("PC 16:0/18:1" -> "PC(16:0/18:1)") and the class prefix is upper-cased.
// The function is idempotent.
func Canonicalize(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, `\`, "/")
	s = delimSpacing.ReplaceAllString(s, "$1")
	if !strings.ContainsAny(s, "()") {
		if m := bareChain.FindStringSubmatch(s); m != nil {
			s = m[1] + "(" + m[2] + ")"
		}
	}
	s = classPrefix.ReplaceAllStringFunc(s, strings.ToUpper)
	return s
}

// Standardizer resolves raw names against a reference vocabulary with a
// read-through cache keyed by canonical form. Safe for concurrent use; the
// vocabulary is read-only after construction.
type Standardizer struct {
	vocab ports.Vocabulary

	mu    sync.RWMutex
	cache map[string]Result
}

// NewStandardizer creates a standardizer over the given vocabulary
func NewStandardizer(vocab ports.Vocabulary) *Standardizer {
	return &Standardizer{
		vocab: vocab,
		cache: make(map[string]Result),
	}
}

// Standardize canonicalizes the name and looks it up in the vocabulary.
// Standardizing an already-standardized name returns it unchanged.
func (s *Standardizer) Standardize(name string) Result {
	canonical := Canonicalize(name)
	if canonical == "" {
		return Result{Reason: ReasonEmptyName}
	}

	s.mu.RLock()
	cached, ok := s.cache[canonical]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	var result Result
	if refID, found := s.vocab.Lookup(canonical); found {
		result = Result{OK: true, StandardizedName: canonical, ReferenceID: refID}
	} else {
		result = Result{Reason: ReasonNoMatch}
	}

	s.mu.Lock()
	s.cache[canonical] = result
	s.mu.Unlock()

	return result
}

// CacheSize returns the number of cached canonical forms
func (s *Standardizer) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
