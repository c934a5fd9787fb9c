// Package dashboard is the interactive terminal front end for a trained
// productivity model.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// Scores are clamped to this range before display.
const (
	MinScore = 10.0
	MaxScore = 100.0
)

var (
	// ErrNoModel is returned by NewPredictor for a nil or empty bundle.
	ErrNoModel = errors.New("dashboard: no model loaded")
	// ErrNotRegressor is returned for bundles trained on a class target.
	ErrNotRegressor = errors.New("dashboard: model does not predict a score")
)

// Input is one planned study session as entered on the dashboard.
type Input struct {
	DurationMinutes   int
	TabSwitches       int
	KeystrokeRate     int
	MouseMovements    int
	InactivityPeriods int
	ScrollEvents      int
	Subject           string
}

// Predictor scores Inputs with a trained bundle.
type Predictor struct {
	bundle *pipeline.Bundle
}

func NewPredictor(b *pipeline.Bundle) (*Predictor, error) {
	if b == nil || b.Model == nil {
		return nil, ErrNoModel
	}
	if b.Kind.IsClassifier() || b.Target == session.ColFocus {
		return nil, fmt.Errorf("%w: %s on %s", ErrNotRegressor, b.Kind, b.Target)
	}
	return &Predictor{bundle: b}, nil
}

// Subjects returns the subjects the model was trained on.
func (p *Predictor) Subjects() []string {
	if p.bundle.Subjects == nil {
		return nil
	}
	return append([]string(nil), p.bundle.Subjects.Classes...)
}

// Predict returns the clamped productivity score for in. A subject the
// model has never seen is encoded as 0.
func (p *Predictor) Predict(in Input) (float64, error) {
	row, err := p.row(in)
	if err != nil {
		return 0, err
	}
	score := p.bundle.Predict([][]float64{row})[0]
	return min(MaxScore, max(MinScore, score)), nil
}

func (p *Predictor) row(in Input) ([]float64, error) {
	row := make([]float64, len(p.bundle.Features))
	for j, name := range p.bundle.Features {
		switch name {
		case session.ColDurationMinutes:
			row[j] = float64(in.DurationMinutes)
		case session.ColTabSwitches:
			row[j] = float64(in.TabSwitches)
		case session.ColKeystrokeRate:
			row[j] = float64(in.KeystrokeRate)
		case session.ColMouseMovements:
			row[j] = float64(in.MouseMovements)
		case session.ColInactivityPeriods:
			row[j] = float64(in.InactivityPeriods)
		case session.ColScrollEvents:
			row[j] = float64(in.ScrollEvents)
		case dataprep.SubjectEncoded:
			if p.bundle.Subjects != nil {
				if code, err := p.bundle.Subjects.Encode(in.Subject); err == nil {
					row[j] = float64(code)
				}
			}
		default:
			return nil, fmt.Errorf("dashboard: model feature %q has no input", name)
		}
	}
	return row, nil
}

// Level is the focus band a score falls in.
type Level string

const (
	LevelAttentive   Level = "Attentive"
	LevelSemiFocused Level = "Semi-Focused"
	LevelDistracted  Level = "Distracted"
)

// FocusLevel maps a score onto its band: 70 and above is attentive, 40 and
// above semi-focused.
func FocusLevel(score float64) Level {
	switch {
	case score >= 70:
		return LevelAttentive
	case score >= 40:
		return LevelSemiFocused
	default:
		return LevelDistracted
	}
}

// Insights returns advice for a predicted session, most important first.
func Insights(in Input, score float64) []string {
	var out []string
	switch FocusLevel(score) {
	case LevelAttentive:
		out = append(out, "Great focus! You're likely to have a productive session.")
	case LevelSemiFocused:
		out = append(out, "Moderate focus. Try minimizing distractions.")
	default:
		out = append(out, "Low focus predicted. Consider taking a break or changing environment.")
	}
	if in.TabSwitches > 10 {
		out = append(out, "High tab switching detected. Try using focus apps to block distractions.")
	}
	if in.DurationMinutes > 60 {
		out = append(out, "Long session planned. Consider breaking it into smaller chunks with breaks.")
	}
	return out
}
