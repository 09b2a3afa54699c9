// Package matching links free-text ingredient names from recipe manuals to the
// master ingredient catalog using edit-distance similarity plus a keyword bonus.
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Confidence buckets a similarity score for auto-accept vs. review workflows.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
	None   Confidence = "none"
)

const (
	exactScore       = 1.0
	containmentScore = 0.9
)

// Config holds the tunable matcher parameters.
type Config struct {
	HighThreshold   float64
	MediumThreshold float64
	LowThreshold    float64
	KeywordWeight   float64
	MaxAlternatives int
	StopWords       []string
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		HighThreshold:   0.85,
		MediumThreshold: 0.65,
		LowThreshold:    0.40,
		KeywordWeight:   0.3,
		MaxAlternatives: 3,
		StopWords:       []string{"and", "or", "the", "a", "an", "of", "for", "with", "in", "on"},
	}
}

// Candidate is one catalog entry the matcher can pick.
type Candidate struct {
	ID        uint   `json:"id"`
	Category  string `json:"category,omitempty"`
	NameEN    string `json:"name_en"`
	NameLocal string `json:"name_local"`
}

// Scored pairs a candidate with its score.
type Scored struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
}

// Result is the outcome for one input name.
type Result struct {
	Input        string     `json:"input"`
	Match        *Candidate `json:"match"`
	Score        float64    `json:"score"`
	Confidence   Confidence `json:"confidence"`
	Alternatives []Scored   `json:"alternatives"`
}

// Matcher is safe for concurrent use once built.
type Matcher struct {
	cfg       Config
	stopWords map[string]struct{}
}

type preparedCandidate struct {
	candidate Candidate
	names     []string
	keywords  []string
}

// New builds a Matcher; zero-valued fields of cfg take their defaults.
func New(cfg Config) *Matcher {
	cfg = cfg.withDefaults()
	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, word := range cfg.StopWords {
		stop[strings.ToLower(strings.TrimSpace(word))] = struct{}{}
	}
	return &Matcher{cfg: cfg, stopWords: stop}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.HighThreshold <= 0 {
		c.HighThreshold = def.HighThreshold
	}
	if c.MediumThreshold <= 0 {
		c.MediumThreshold = def.MediumThreshold
	}
	if c.LowThreshold <= 0 {
		c.LowThreshold = def.LowThreshold
	}
	if c.KeywordWeight <= 0 {
		c.KeywordWeight = def.KeywordWeight
	}
	if c.MaxAlternatives <= 0 {
		c.MaxAlternatives = def.MaxAlternatives
	}
	if c.StopWords == nil {
		c.StopWords = def.StopWords
	}
	return c
}

// Validate checks the thresholds New would use, after defaults are applied:
// each tier must be reachable and no threshold may exceed 1.
func (c Config) Validate() error {
	c = c.withDefaults()
	switch {
	case c.HighThreshold > 1:
		return fmt.Errorf("high match threshold %.2f exceeds 1", c.HighThreshold)
	case c.MediumThreshold > c.HighThreshold:
		return fmt.Errorf("medium match threshold %.2f exceeds high threshold %.2f", c.MediumThreshold, c.HighThreshold)
	case c.LowThreshold > c.MediumThreshold:
		return fmt.Errorf("low match threshold %.2f exceeds medium threshold %.2f", c.LowThreshold, c.MediumThreshold)
	}
	return nil
}

// Config returns the effective configuration.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Match resolves every name against catalog, preserving input order.
func (m *Matcher) Match(names []string, catalog []Candidate) []Result {
	prepared := m.prepare(catalog)
	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, m.match(name, prepared))
	}
	return results
}

// MatchOne resolves a single name.
func (m *Matcher) MatchOne(name string, catalog []Candidate) Result {
	return m.match(name, m.prepare(catalog))
}

// Score computes the final score of name against one candidate.
func (m *Matcher) Score(name string, candidate Candidate) float64 {
	input := Normalize(name)
	return m.score(input, m.Keywords(input), m.prepareOne(candidate))
}

// Tier maps a score onto a confidence bucket.
func (m *Matcher) Tier(score float64) Confidence {
	switch {
	case score >= m.cfg.HighThreshold:
		return High
	case score >= m.cfg.MediumThreshold:
		return Medium
	case score >= m.cfg.LowThreshold:
		return Low
	default:
		return None
	}
}

// TierFor buckets score with the default thresholds.
func TierFor(score float64) Confidence {
	return defaultMatcher.Tier(score)
}

var defaultMatcher = New(DefaultConfig())

func (m *Matcher) prepare(catalog []Candidate) []preparedCandidate {
	prepared := make([]preparedCandidate, 0, len(catalog))
	for _, candidate := range catalog {
		prepared = append(prepared, m.prepareOne(candidate))
	}
	return prepared
}

func (m *Matcher) prepareOne(candidate Candidate) preparedCandidate {
	p := preparedCandidate{candidate: candidate}
	for _, raw := range []string{candidate.NameEN, candidate.NameLocal} {
		name := Normalize(raw)
		if name == "" {
			continue
		}
		p.names = append(p.names, name)
		p.keywords = append(p.keywords, m.Keywords(name)...)
	}
	return p
}

func (m *Matcher) match(name string, catalog []preparedCandidate) Result {
	input := Normalize(name)
	result := Result{Input: name, Confidence: None, Alternatives: []Scored{}}
	if input == "" || len(catalog) == 0 {
		return result
	}

	keywords := m.Keywords(input)
	ranked := make([]Scored, 0, len(catalog))
	for _, candidate := range catalog {
		ranked = append(ranked, Scored{
			Candidate: candidate.candidate,
			Score:     m.score(input, keywords, candidate),
		})
	}
	// Equal scores keep catalog order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	top := ranked[0]
	result.Score = top.Score
	result.Confidence = m.Tier(top.Score)
	if result.Confidence != None {
		best := top.Candidate
		result.Match = &best
	}

	end := 1 + m.cfg.MaxAlternatives
	if end > len(ranked) {
		end = len(ranked)
	}
	result.Alternatives = append(result.Alternatives, ranked[1:end]...)
	return result
}

func (m *Matcher) score(input string, keywords []string, candidate preparedCandidate) float64 {
	best := 0.0
	for _, name := range candidate.names {
		if s := similarity(input, name); s > best {
			best = s
		}
	}

	bonus := 0.0
	if len(keywords) > 0 {
		matched := 0
		for _, keyword := range keywords {
			if containsKeyword(candidate.keywords, keyword) {
				matched++
			}
		}
		bonus = float64(matched) / float64(len(keywords)) * m.cfg.KeywordWeight
	}

	return math.Min(1.0, best+bonus)
}

func containsKeyword(pool []string, keyword string) bool {
	for _, candidate := range pool {
		if strings.Contains(candidate, keyword) || strings.Contains(keyword, candidate) {
			return true
		}
	}
	return false
}

// Similarity scores two raw names in [0,1] after normalization.
// Identical names score 1, including two names that both normalize to empty.
// When exactly one side normalizes to empty the score is 0 rather than the
// containment score: every string contains "", so an empty name would
// otherwise match any catalog entry at 0.9.
func Similarity(a, b string) float64 {
	return similarity(Normalize(a), Normalize(b))
}

func similarity(a, b string) float64 {
	if a == b {
		return exactScore
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return containmentScore
	}
	maxLen := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > maxLen {
		maxLen = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
