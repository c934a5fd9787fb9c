// Package session synthesizes labelled study-session records from per-category
// behavioural ranges.
package session

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultSubject  = "ai-ml-course"
	DefaultIDPrefix = "session_17526"
	DefaultInterval = 5 * time.Minute
)

// DefaultBaseTime is the instant of the first generated session.
var DefaultBaseTime = time.Date(2025, 7, 16, 8, 0, 0, 0, time.UTC)

// Generator enumerates records for a validated distribution and range table.
// A Generator owns its random source and must not be shared between goroutines.
type Generator struct {
	distribution Distribution
	ranges       RangeTable

	subject  string
	idPrefix string
	base     time.Time
	interval time.Duration
	rnd      *rand.Rand
}

// Option functional config
type Option func(*Generator)

func WithSubject(s string) Option         { return func(g *Generator) { g.subject = s } }
func WithIDPrefix(p string) Option        { return func(g *Generator) { g.idPrefix = p } }
func WithBaseTime(t time.Time) Option     { return func(g *Generator) { g.base = t.UTC() } }
func WithInterval(d time.Duration) Option { return func(g *Generator) { g.interval = d } }
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rnd = rand.New(rand.NewSource(seed)) }
}

// WithRand installs a caller-owned random source.
func WithRand(r *rand.Rand) Option { return func(g *Generator) { g.rnd = r } }

// Configure validates distribution against ranges and returns a ready Generator.
// Every category in one mapping must appear in the other, every category must
// define all seven Features, counts must be non-negative and bounds must satisfy
// Low <= High with a span narrower than math.MaxInt. Violations return a
// *ConfigurationError.
func Configure(distribution Distribution, ranges RangeTable, opts ...Option) (*Generator, error) {
	if err := validate(distribution, ranges); err != nil {
		return nil, err
	}
	g := &Generator{
		distribution: make(Distribution, len(distribution)),
		ranges:       make(RangeTable, len(ranges)),
		subject:      DefaultSubject,
		idPrefix:     DefaultIDPrefix,
		base:         DefaultBaseTime,
		interval:     DefaultInterval,
	}
	for c, n := range distribution {
		g.distribution[c] = n
	}
	for c, rs := range ranges {
		cp := make(Ranges, len(rs))
		for f, r := range rs {
			cp[f] = r
		}
		g.ranges[c] = cp
	}
	for _, o := range opts {
		o(g)
	}
	if g.interval <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("interval must be positive, got %s", g.interval)}
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g, nil
}

func validate(distribution Distribution, ranges RangeTable) error {
	for c, n := range distribution {
		if !c.Valid() {
			return &ConfigurationError{Category: c, Reason: "unknown focus category"}
		}
		if n < 0 {
			return &ConfigurationError{Category: c, Reason: fmt.Sprintf("negative count %d", n)}
		}
		if _, ok := ranges[c]; !ok {
			return &ConfigurationError{Category: c, Reason: "present in distribution but missing from ranges"}
		}
	}
	for c, rs := range ranges {
		if _, ok := distribution[c]; !ok {
			return &ConfigurationError{Category: c, Reason: "present in ranges but missing from distribution"}
		}
		for f, r := range rs {
			if r.Low > r.High {
				return &ConfigurationError{Category: c, Feature: f, Reason: fmt.Sprintf("inverted bound [%d, %d]", r.Low, r.High)}
			}
			// draw needs High-Low+1 to fit in an int.
			if span := r.High - r.Low; span < 0 || span == math.MaxInt {
				return &ConfigurationError{Category: c, Feature: f, Reason: fmt.Sprintf("range too wide [%d, %d]", r.Low, r.High)}
			}
		}
		for _, f := range Features {
			if _, ok := rs[f]; !ok {
				return &ConfigurationError{Category: c, Feature: f, Reason: "missing range"}
			}
		}
	}
	return nil
}

// Total returns the number of records Generate will produce.
func (g *Generator) Total() int { return g.distribution.Total() }

// Generate synthesizes the full dataset. Records are category-major in
// Categories order; the sequence index keeps increasing across categories.
func (g *Generator) Generate() []Record {
	out := make([]Record, 0, g.Total())
	index := 0
	for _, c := range Categories {
		n, ok := g.distribution[c]
		if !ok {
			continue
		}
		for k := 0; k < n; k++ {
			out = append(out, g.record(c, index))
			index++
		}
	}
	return out
}

func (g *Generator) record(c FocusCategory, index int) Record {
	rs := g.ranges[c]
	return Record{
		SessionID:         SessionID(g.idPrefix, index),
		Timestamp:         g.base.Add(time.Duration(index) * g.interval),
		Subject:           g.subject,
		DurationMinutes:   g.draw(rs[Duration]),
		TabSwitches:       g.draw(rs[TabSwitches]),
		KeystrokeRate:     g.draw(rs[Keystrokes]),
		MouseMovements:    g.draw(rs[MouseMoves]),
		InactivityPeriods: g.draw(rs[Inactivity]),
		ScrollEvents:      g.draw(rs[Scrolls]),
		Focus:             c,
		ProductivityScore: g.draw(rs[Productivity]),
	}
}

// draw returns a uniform integer in [r.Low, r.High].
func (g *Generator) draw(r Range) int {
	return r.Low + g.rnd.Intn(r.High-r.Low+1)
}

// SessionID derives the identifier of the index-th session.
func SessionID(prefix string, index int) string {
	return fmt.Sprintf("%s%05d", prefix, index)
}
