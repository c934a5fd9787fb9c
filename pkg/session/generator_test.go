package session_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

func newGenerator(t *testing.T, d session.Distribution) *session.Generator {
	t.Helper()
	g, err := session.Configure(d, session.DefaultRanges(), session.WithSeed(7))
	require.NoError(t, err)
	return g
}

func TestGenerate_DefaultDistributionLength(t *testing.T) {
	g := newGenerator(t, session.DefaultDistribution())
	records := g.Generate()
	require.Len(t, records, 300)
	require.Equal(t, 300, g.Total())
}

func TestGenerate_FeaturesWithinCategoryBounds(t *testing.T) {
	ranges := session.DefaultRanges()
	records := newGenerator(t, session.DefaultDistribution()).Generate()

	for _, r := range records {
		bounds := ranges[r.Focus]
		for _, f := range session.Features {
			assert.Truef(t, bounds[f].Contains(r.Value(f)),
				"%s: %s=%d outside %v for %s", r.SessionID, f, r.Value(f), bounds[f], r.Focus)
		}
	}
}

func TestGenerate_IDsUniqueAndOrdered(t *testing.T) {
	records := newGenerator(t, session.DefaultDistribution()).Generate()

	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		_, dup := seen[r.SessionID]
		require.Falsef(t, dup, "duplicate id %s", r.SessionID)
		seen[r.SessionID] = struct{}{}
		require.Equal(t, session.SessionID(session.DefaultIDPrefix, i), r.SessionID)
	}
	assert.Equal(t, "session_1752600000", records[0].SessionID)
	assert.Equal(t, "session_1752600299", records[299].SessionID)
}

func TestGenerate_TimestampsStepFiveMinutes(t *testing.T) {
	records := newGenerator(t, session.DefaultDistribution()).Generate()

	require.Equal(t, session.DefaultBaseTime, records[0].Timestamp)
	for i := 1; i < len(records); i++ {
		require.True(t, records[i].Timestamp.After(records[i-1].Timestamp))
		require.Equal(t, 5*time.Minute, records[i].Timestamp.Sub(records[i-1].Timestamp))
	}
	assert.Equal(t, "2025-07-16T08:05:00Z", records[1].Row()[1])
}

func TestGenerate_ExactCategoryCountsAndContiguity(t *testing.T) {
	d := session.Distribution{session.Distracted: 3, session.SemiAttentive: 0, session.Attentive: 1}
	records := newGenerator(t, d).Generate()
	require.Len(t, records, 4)

	counts := map[session.FocusCategory]int{}
	for _, r := range records {
		counts[r.Focus]++
	}
	assert.Equal(t, 3, counts[session.Distracted])
	assert.Equal(t, 0, counts[session.SemiAttentive])
	assert.Equal(t, 1, counts[session.Attentive])

	for i := 0; i < 3; i++ {
		assert.Equal(t, session.Distracted, records[i].Focus)
	}
	assert.Equal(t, session.Attentive, records[3].Focus)
	assert.Equal(t, "session_1752600003", records[3].SessionID, "index is not reset per category")
}

func TestGenerate_SubjectAndOptions(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	g, err := session.Configure(
		session.Distribution{session.Attentive: 2},
		session.RangeTable{session.Attentive: session.DefaultRanges()[session.Attentive]},
		session.WithSubject("maths"),
		session.WithIDPrefix("s"),
		session.WithBaseTime(base),
		session.WithInterval(time.Minute),
		session.WithRand(rand.New(rand.NewSource(1))),
	)
	require.NoError(t, err)

	records := g.Generate()
	require.Len(t, records, 2)
	assert.Equal(t, "maths", records[0].Subject)
	assert.Equal(t, "s00001", records[1].SessionID)
	assert.Equal(t, base.Add(time.Minute), records[1].Timestamp)
}

func TestGenerate_SameSeedSameValues(t *testing.T) {
	a := newGenerator(t, session.DefaultDistribution()).Generate()
	b := newGenerator(t, session.DefaultDistribution()).Generate()
	assert.Equal(t, a, b)
}

func TestConfigure_Errors(t *testing.T) {
	full := session.DefaultRanges()[session.Attentive]
	inverted := session.Ranges{}
	for f, r := range full {
		inverted[f] = r
	}
	inverted[session.Duration] = session.Range{Low: 12, High: 8}
	widened := func(r session.Range) session.Ranges {
		out := session.Ranges{}
		for f, v := range full {
			out[f] = v
		}
		out[session.MouseMoves] = r
		return out
	}

	tests := []struct {
		name   string
		dist   session.Distribution
		ranges session.RangeTable
	}{
		{"missing from ranges", session.Distribution{session.Attentive: 5}, session.RangeTable{}},
		{"missing from distribution", session.Distribution{}, session.RangeTable{session.Attentive: full}},
		{"inverted bound", session.Distribution{session.Attentive: 5}, session.RangeTable{session.Attentive: inverted}},
		{"inverted sparse table", session.Distribution{session.Attentive: 5},
			session.RangeTable{session.Attentive: {session.Duration: {Low: 12, High: 8}}}},
		{"missing feature", session.Distribution{session.Attentive: 5},
			session.RangeTable{session.Attentive: {session.Duration: {Low: 8, High: 12}}}},
		{"negative count", session.Distribution{session.Attentive: -1}, session.RangeTable{session.Attentive: full}},
		{"unknown category", session.Distribution{"bored": 1}, session.RangeTable{"bored": full}},
		{"span of max int", session.Distribution{session.Attentive: 1},
			session.RangeTable{session.Attentive: widened(session.Range{Low: 0, High: math.MaxInt})}},
		{"span overflows int", session.Distribution{session.Attentive: 1},
			session.RangeTable{session.Attentive: widened(session.Range{Low: -10, High: math.MaxInt - 5})}},
		{"full int range", session.Distribution{session.Attentive: 1},
			session.RangeTable{session.Attentive: widened(session.Range{Low: math.MinInt, High: math.MaxInt})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := session.Configure(tt.dist, tt.ranges)
			require.Error(t, err)
			require.Nil(t, g)
			require.True(t, errors.Is(err, session.ErrConfiguration))

			var ce *session.ConfigurationError
			require.True(t, errors.As(err, &ce))
		})
	}
}

func TestGenerate_WidestAcceptedRange(t *testing.T) {
	rs := session.Ranges{}
	for f, r := range session.DefaultRanges()[session.Attentive] {
		rs[f] = r
	}
	wide := session.Range{Low: 0, High: math.MaxInt - 1}
	rs[session.MouseMoves] = wide
	g, err := session.Configure(session.Distribution{session.Attentive: 20}, session.RangeTable{session.Attentive: rs}, session.WithSeed(5))
	require.NoError(t, err)

	records := g.Generate()
	require.Len(t, records, 20)
	for _, r := range records {
		assert.True(t, wide.Contains(r.MouseMovements))
	}
}

func TestConfigure_TooWideReason(t *testing.T) {
	rs := session.Ranges{}
	for f, r := range session.DefaultRanges()[session.Attentive] {
		rs[f] = r
	}
	rs[session.Scrolls] = session.Range{Low: math.MinInt, High: 0}
	_, err := session.Configure(session.Distribution{session.Attentive: 1}, session.RangeTable{session.Attentive: rs})

	var ce *session.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, session.Scrolls, ce.Feature)
	assert.Contains(t, ce.Reason, "range too wide")
}

func TestGenerate_SubSecondIntervalKeepsTimestampsDistinct(t *testing.T) {
	g, err := session.Configure(session.Distribution{session.Distracted: 3, session.Attentive: 3}, session.DefaultRanges(),
		session.WithSeed(9), session.WithInterval(500*time.Millisecond))
	require.NoError(t, err)
	records := g.Generate()

	assert.Equal(t, "2025-07-16T08:00:00Z", records[0].Row()[1])
	assert.Equal(t, "2025-07-16T08:00:00.5Z", records[1].Row()[1])
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].Row()[1], records[i].Row()[1]
		back, err := time.Parse(session.TimestampLayout, cur)
		require.NoError(t, err)
		assert.True(t, back.After(records[i-1].Timestamp), "%s not after %s", cur, prev)
	}
	for _, r := range records {
		back, err := session.ParseRow(r.Row())
		require.NoError(t, err)
		assert.Equal(t, r, back)
	}
}

func TestConfigure_CopiesInputs(t *testing.T) {
	d := session.Distribution{session.Attentive: 2}
	r := session.RangeTable{session.Attentive: session.DefaultRanges()[session.Attentive]}
	g, err := session.Configure(d, r, session.WithSeed(3))
	require.NoError(t, err)

	d[session.Attentive] = 50
	r[session.Attentive][session.Duration] = session.Range{Low: 500, High: 600}

	records := g.Generate()
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.True(t, session.Range{Low: 8, High: 12}.Contains(rec.DurationMinutes))
	}
}

func TestRowRoundTrip(t *testing.T) {
	records := newGenerator(t, session.Distribution{session.Distracted: 1, session.SemiAttentive: 1, session.Attentive: 1}).Generate()
	for _, r := range records {
		row := r.Row()
		require.Len(t, row, len(session.Columns))
		back, err := session.ParseRow(row)
		require.NoError(t, err)
		assert.Equal(t, r, back)
	}
}

func TestCategoryOrdinal(t *testing.T) {
	assert.Equal(t, 0, session.Distracted.Ordinal())
	assert.Equal(t, 1, session.SemiAttentive.Ordinal())
	assert.Equal(t, 2, session.Attentive.Ordinal())
	assert.Equal(t, -1, session.FocusCategory("semi-focused").Ordinal())

	c, err := session.CategoryFromOrdinal(2)
	require.NoError(t, err)
	assert.Equal(t, session.Attentive, c)
	_, err = session.CategoryFromOrdinal(3)
	assert.Error(t, err)
}
