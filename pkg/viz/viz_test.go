package viz_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/viz"
)

func records(t *testing.T) []session.Record {
	t.Helper()
	g, err := session.Configure(session.Distribution{
		session.Distracted:    10,
		session.SemiAttentive: 8,
		session.Attentive:     6,
	}, session.DefaultRanges(), session.WithSeed(3))
	require.NoError(t, err)
	return g.Generate()
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	recs := records(t)

	charts := map[string]func(string) error{
		"actual_vs_predicted.png": func(p string) error {
			return viz.ActualVsPredicted([]float64{20, 50, 90}, []float64{25, 48, 80}, p)
		},
		"focus_distribution.png":     func(p string) error { return viz.FocusDistribution(recs, p) },
		"productivity_vs_scroll.png": func(p string) error { return viz.ProductivityVsScroll(recs, p) },
		"focus_by_subject.png":       func(p string) error { return viz.FocusBySubject(recs, p) },
		"feature_importance.png": func(p string) error {
			return viz.FeatureImportance([]string{"a", "b"}, []float64{0.7, 0.3}, p)
		},
	}
	for name, draw := range charts {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, draw(path))
			requirePNG(t, path)
		})
	}
}

func TestCharts_NoData(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, viz.ActualVsPredicted(nil, nil, filepath.Join(dir, "a.png")), viz.ErrNoData)
	assert.ErrorIs(t, viz.ActualVsPredicted([]float64{1}, nil, filepath.Join(dir, "a.png")), viz.ErrNoData)
	assert.ErrorIs(t, viz.FocusDistribution(nil, filepath.Join(dir, "b.png")), viz.ErrNoData)
	assert.ErrorIs(t, viz.FeatureImportance([]string{"a"}, nil, filepath.Join(dir, "c.png")), viz.ErrNoData)
}

func TestCharts_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "chart.png")
	err := viz.FocusDistribution(records(t), path)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(statErr))
}
