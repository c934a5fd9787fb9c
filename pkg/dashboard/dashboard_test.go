package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// stubModel returns a fixed score and remembers its last input.
type stubModel struct {
	out  float64
	last [][]float64
}

func (s *stubModel) Fit(X [][]float64, y []float64) error { return nil }

func (s *stubModel) Predict(X [][]float64) []float64 {
	s.last = X
	out := make([]float64, len(X))
	for i := range out {
		out[i] = s.out
	}
	return out
}

func newBundle(out float64) (*pipeline.Bundle, *stubModel) {
	m := &stubModel{out: out}
	return &pipeline.Bundle{
		Kind:     model.KindDecisionTree,
		Model:    m,
		Subjects: dataprep.NewLabelEncoder([]string{"maths", "ai-ml-course"}),
		Features: dataprep.DefaultFeatures(),
		Target:   session.ColProductivity,
	}, m
}

func newPredictor(t *testing.T, out float64) (*Predictor, *stubModel) {
	t.Helper()
	b, m := newBundle(out)
	p, err := NewPredictor(b)
	require.NoError(t, err)
	return p, m
}

func TestPredictor_BuildsRowInFeatureOrder(t *testing.T) {
	p, m := newPredictor(t, 55)
	score, err := p.Predict(Input{
		DurationMinutes:   30,
		TabSwitches:       5,
		KeystrokeRate:     10,
		MouseMovements:    150,
		InactivityPeriods: 2,
		ScrollEvents:      50,
		Subject:           "maths",
	})
	require.NoError(t, err)
	assert.Equal(t, 55.0, score)
	assert.Equal(t, [][]float64{{30, 5, 10, 150, 2, 50, 1}}, m.last)
	assert.Equal(t, []string{"ai-ml-course", "maths"}, p.Subjects())
}

func TestPredictor_UnknownSubjectEncodesAsZero(t *testing.T) {
	p, m := newPredictor(t, 55)
	_, err := p.Predict(Input{Subject: "history"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.last[0][6])
}

func TestPredictor_Clamps(t *testing.T) {
	tests := []struct {
		out, want float64
	}{
		{150, 100},
		{100, 100},
		{42.5, 42.5},
		{10, 10},
		{-3, 10},
	}
	for _, tt := range tests {
		p, _ := newPredictor(t, tt.out)
		got, err := p.Predict(Input{Subject: "maths"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "model output %v", tt.out)
	}
}

func TestPredictor_Errors(t *testing.T) {
	_, err := NewPredictor(nil)
	assert.ErrorIs(t, err, ErrNoModel)

	b, _ := newBundle(1)
	b.Kind = model.KindTreeClassifier
	b.Target = session.ColFocus
	_, err = NewPredictor(b)
	assert.ErrorIs(t, err, ErrNotRegressor)

	b, _ = newBundle(1)
	b.Features = []string{"heart_rate"}
	p, err := NewPredictor(b)
	require.NoError(t, err)
	_, err = p.Predict(Input{})
	assert.Error(t, err)
}

func TestFocusLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{100, LevelAttentive},
		{70, LevelAttentive},
		{69.9, LevelSemiFocused},
		{40, LevelSemiFocused},
		{39.9, LevelDistracted},
		{10, LevelDistracted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FocusLevel(tt.score), "score %v", tt.score)
	}
}

func TestInsights(t *testing.T) {
	got := Insights(Input{TabSwitches: 5, DurationMinutes: 30}, 80)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Great focus")

	got = Insights(Input{TabSwitches: 11, DurationMinutes: 61}, 50)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "Moderate focus")
	assert.Contains(t, got[1], "tab switching")
	assert.Contains(t, got[2], "Long session")

	got = Insights(Input{TabSwitches: 10, DurationMinutes: 60}, 20)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Low focus")
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_Defaults(t *testing.T) {
	p, _ := newPredictor(t, 50)
	m := NewModel(p, nil)
	assert.Equal(t, Input{
		DurationMinutes:   30,
		TabSwitches:       5,
		KeystrokeRate:     10,
		MouseMovements:    150,
		InactivityPeriods: 2,
		ScrollEvents:      50,
		Subject:           "ai-ml-course",
	}, m.Input())
	_, scored := m.Score()
	assert.False(t, scored)
	assert.Contains(t, m.View(), "Session Input")
}

func TestModel_SlidersStayInRange(t *testing.T) {
	p, _ := newPredictor(t, 50)
	m := NewModel(p, nil)

	m = press(t, m, runes("L"), runes("L"), runes("L"), runes("L"), runes("L"), runes("L"), runes("L"), runes("L"), runes("L"), runes("L"))
	assert.Equal(t, 120, m.Input().DurationMinutes)

	m = press(t, m, keyDown, keyLeft, keyLeft, keyLeft, keyLeft, keyLeft, keyLeft)
	assert.Equal(t, 0, m.Input().TabSwitches)

	m = press(t, m, keyRight)
	assert.Equal(t, 1, m.Input().TabSwitches)
}

func TestModel_SubjectSelectorWraps(t *testing.T) {
	p, _ := newPredictor(t, 50)
	m := NewModel(p, []string{"maths", "history"})

	m = press(t, m, keyUp)
	assert.Equal(t, "maths", m.Input().Subject)
	m = press(t, m, keyRight)
	assert.Equal(t, "history", m.Input().Subject)
	m = press(t, m, keyRight)
	assert.Equal(t, "maths", m.Input().Subject)
	m = press(t, m, keyLeft)
	assert.Equal(t, "history", m.Input().Subject)
}

func TestModel_EnterPredicts(t *testing.T) {
	p, _ := newPredictor(t, 82)
	m := NewModel(p, nil)

	m = press(t, m, keyEnter)
	score, scored := m.Score()
	require.True(t, scored)
	assert.Equal(t, 82.0, score)
	view := m.View()
	assert.Contains(t, view, "82.0/100")
	assert.Contains(t, view, "Great focus")

	m = press(t, m, runes("r"))
	_, scored = m.Score()
	assert.False(t, scored)
}

func TestModel_Quit(t *testing.T) {
	p, _ := newPredictor(t, 50)
	_, cmd := NewModel(p, nil).Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
