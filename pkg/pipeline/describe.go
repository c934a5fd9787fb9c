package pipeline

import (
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/stats"
)

// CategoryCount is the number of rows of one focus category.
type CategoryCount struct {
	Category session.FocusCategory
	Count    int
}

// Correlation is the Pearson correlation of a feature with the target.
type Correlation struct {
	Feature string
	R       float64
}

// Summary describes a dataset before training.
type Summary struct {
	Rows         int
	Columns      int
	Subjects     []string
	Focus        []CategoryCount
	Target       string
	TargetStats  stats.Summary
	Correlations []Correlation
}

// Describe summarizes f. Focus counts and correlations are only filled in
// when the dataset has the corresponding columns.
func Describe(f *data.Frame, target string) (*Summary, error) {
	s := &Summary{Rows: f.Len(), Columns: len(f.Header), Target: target}

	if f.Has(session.ColSubject) {
		subjects, err := f.Strings(session.ColSubject)
		if err != nil {
			return nil, err
		}
		s.Subjects = dataprep.NewLabelEncoder(subjects).Classes
	}

	if f.Has(session.ColFocus) {
		labels, err := f.Strings(session.ColFocus)
		if err != nil {
			return nil, err
		}
		ord, err := dataprep.FocusOrdinal(labels)
		if err != nil {
			return nil, err
		}
		counts := make([]int, len(session.Categories))
		for _, o := range ord {
			counts[o]++
		}
		for i, c := range session.Categories {
			s.Focus = append(s.Focus, CategoryCount{Category: c, Count: counts[i]})
		}
	}

	y, err := Target(f, target)
	if err != nil {
		return nil, err
	}
	s.TargetStats = stats.Describe(y)

	for _, col := range session.BehaviorColumns {
		if !f.Has(col) || col == target {
			continue
		}
		x, err := f.Floats(col)
		if err != nil {
			return nil, err
		}
		s.Correlations = append(s.Correlations, Correlation{Feature: col, R: stats.Correlation(x, y)})
	}
	return s, nil
}
