package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/pipeline"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

type PipelineSuite struct {
	suite.Suite
	dir   string
	path  string
	frame *data.Frame
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupSuite() {
	g, err := session.Configure(session.DefaultDistribution(), session.DefaultRanges(), session.WithSeed(11))
	s.Require().NoError(err)

	s.dir = s.T().TempDir()
	s.path = filepath.Join(s.dir, "sessions.csv")
	s.Require().NoError(data.WriteSessionsCSV(s.path, g.Generate()))

	s.frame, err = data.ReadFrame(s.path)
	s.Require().NoError(err)
}

func (s *PipelineSuite) config() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.DatasetPath = s.path
	cfg.Estimators = 10
	return cfg
}

func (s *PipelineSuite) TestDefaultConfig() {
	cfg := pipeline.DefaultConfig()
	s.Equal(model.KindDecisionTree, cfg.Model)
	s.Equal(session.ColProductivity, cfg.Target)
	s.Equal(dataprep.DefaultFeatures(), cfg.Features)
	s.Equal(0.2, cfg.TestRatio)
	s.Equal(int64(42), cfg.Seed)
	s.NoError(cfg.Validate())
}

func (s *PipelineSuite) TestValidate() {
	cases := map[string]func(*pipeline.Config){
		"no features":        func(c *pipeline.Config) { c.Features = nil },
		"no target":          func(c *pipeline.Config) { c.Target = "" },
		"target as input":    func(c *pipeline.Config) { c.Features = append(c.Features, c.Target) },
		"unknown model":      func(c *pipeline.Config) { c.Model = "svm" },
		"ratio too large":    func(c *pipeline.Config) { c.TestRatio = 1 },
		"ratio not positive": func(c *pipeline.Config) { c.TestRatio = 0 },
	}
	for name, mutate := range cases {
		cfg := s.config()
		mutate(&cfg)
		s.ErrorIs(cfg.Validate(), pipeline.ErrInvalidConfig, name)
	}
}

func (s *PipelineSuite) TestTrainDecisionTree() {
	res, err := pipeline.Train(s.config())
	s.Require().NoError(err)

	s.Equal(240, res.TrainRows)
	s.Equal(60, res.TestRows)
	s.Len(res.Actual, 60)
	s.Len(res.Predicted, 60)
	s.Greater(res.Metrics.R2, 0.7)
	s.Less(res.Metrics.MAE, 10.0)
	s.Zero(res.Metrics.Accuracy)
	s.Equal([]string{"ai-ml-course"}, res.Bundle.Subjects.Classes)
}

func (s *PipelineSuite) TestTrainIsReproducible() {
	a, err := pipeline.Train(s.config())
	s.Require().NoError(err)
	b, err := pipeline.Train(s.config())
	s.Require().NoError(err)
	s.Equal(a.Actual, b.Actual)
	s.Equal(a.Predicted, b.Predicted)
}

func (s *PipelineSuite) TestTrainFocusClassifier() {
	cfg := s.config()
	cfg.Target = session.ColFocus
	cfg.Model = model.KindTreeClassifier

	res, err := pipeline.Train(cfg)
	s.Require().NoError(err)
	s.InDelta(1.0, res.Metrics.Accuracy, 1e-9)
	for _, p := range res.Predicted {
		s.Contains([]float64{0, 1, 2}, p)
	}
}

func (s *PipelineSuite) TestExportFocusLabels() {
	cfg := s.config()
	cfg.Target = session.ColFocus
	cfg.Model = model.KindForestClassifier
	cfg.Estimators = 10

	res, err := pipeline.Train(cfg)
	s.Require().NoError(err)
	out, err := pipeline.ExportPredictions(res.Bundle, s.frame)
	s.Require().NoError(err)

	got, err := out.Strings(pipeline.ColPredictedFocus)
	s.Require().NoError(err)
	want, err := out.Strings(session.ColFocus)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *PipelineSuite) TestCrossValidate() {
	cfg := s.config()
	cfg.Target = session.ColFocus
	cfg.Model = model.KindTreeClassifier

	cv, err := pipeline.CrossValidate(cfg, s.frame, 5)
	s.Require().NoError(err)
	s.Require().Len(cv.Scores, 5)
	s.InDelta(1.0, cv.Mean, 1e-9)
	s.InDelta(0.0, cv.Std, 1e-9)

	again, err := pipeline.CrossValidate(cfg, s.frame, 5)
	s.Require().NoError(err)
	s.Equal(cv.Scores, again.Scores)

	_, err = pipeline.CrossValidate(cfg, s.frame, 1)
	s.Error(err)
}

func (s *PipelineSuite) TestTrainImputesMissingInputs() {
	f := s.frame.Clone()
	j, err := f.Index(session.ColScrollEvents)
	s.Require().NoError(err)
	f.Rows[3][j] = ""
	f.Rows[200][j] = "NA"

	res, err := pipeline.TrainFrame(s.config(), f)
	s.Require().NoError(err)
	s.Require().Len(res.Imputed, 1)
	s.Equal(session.ColScrollEvents, res.Imputed[0].Column)
	s.Equal(2, res.Imputed[0].Missing)
	s.Equal("", f.Rows[3][j], "caller's frame is not modified")

	out, err := pipeline.ExportPredictions(res.Bundle, f)
	s.Require().NoError(err)
	s.Equal(f.Len(), out.Len())

	clean, err := pipeline.TrainFrame(s.config(), s.frame)
	s.Require().NoError(err)
	s.Empty(clean.Imputed)
}

func (s *PipelineSuite) TestTrainMissingColumn() {
	cfg := s.config()
	cfg.Features = []string{"heart_rate"}

	_, err := pipeline.Train(cfg)
	s.ErrorIs(err, data.ErrColumnNotFound)
}

func (s *PipelineSuite) TestTrainMissingFile() {
	cfg := s.config()
	cfg.DatasetPath = filepath.Join(s.dir, "nope.csv")
	_, err := pipeline.Train(cfg)
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *PipelineSuite) TestBenchmark() {
	rows, err := pipeline.Benchmark(s.config(), s.frame, nil)
	s.Require().NoError(err)
	s.Require().Len(rows, len(model.RegressionKinds))
	for i, r := range rows {
		s.Equal(model.RegressionKinds[i], r.Model)
		s.Greater(r.Metrics.R2, 0.5, r.Model)
	}
}

func (s *PipelineSuite) TestBundleRoundTrip() {
	res, err := pipeline.Train(s.config())
	s.Require().NoError(err)

	path := filepath.Join(s.dir, "model.gob")
	s.Require().NoError(pipeline.SaveBundle(path, res.Bundle))
	back, err := pipeline.LoadBundle(path)
	s.Require().NoError(err)

	s.Equal(res.Bundle.Kind, back.Kind)
	s.Equal(res.Bundle.Features, back.Features)
	s.Equal(res.Bundle.Target, back.Target)
	s.Equal(res.Bundle.Subjects.Classes, back.Subjects.Classes)

	X, err := back.Matrix(s.frame)
	s.Require().NoError(err)
	s.Equal(res.Bundle.Predict(X), back.Predict(X))
}

func (s *PipelineSuite) TestSaveBundleMissingDir() {
	res, err := pipeline.Train(s.config())
	s.Require().NoError(err)
	err = pipeline.SaveBundle(filepath.Join(s.dir, "missing", "model.gob"), res.Bundle)
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *PipelineSuite) TestExportPredictions() {
	res, err := pipeline.Train(s.config())
	s.Require().NoError(err)

	out, err := pipeline.ExportPredictions(res.Bundle, s.frame)
	s.Require().NoError(err)
	s.Equal(s.frame.Len(), out.Len())
	s.Equal(len(s.frame.Header)+3, len(out.Header))
	s.Equal(len(session.Columns), len(s.frame.Header), "input frame is not modified")

	pred, err := out.Floats(pipeline.ColPredicted)
	s.Require().NoError(err)
	actual, err := out.Floats(session.ColProductivity)
	s.Require().NoError(err)
	errs, err := out.Floats(pipeline.ColPredictionError)
	s.Require().NoError(err)
	for i := range pred {
		s.InDelta(abs(pred[i]-actual[i]), errs[i], 1e-9)
	}
	codes, err := out.Strings(dataprep.SubjectEncoded)
	s.Require().NoError(err)
	s.Equal("0", codes[0])
}

func (s *PipelineSuite) TestFeatureImportance() {
	res, err := pipeline.Train(s.config())
	s.Require().NoError(err)

	imp, err := pipeline.FeatureImportance(res.Bundle)
	s.Require().NoError(err)
	s.Require().Len(imp, len(res.Bundle.Features))
	sum := 0.0
	for i, fi := range imp {
		s.Equal(res.Bundle.Features[i], fi.Feature)
		sum += fi.Importance
	}
	s.InDelta(1.0, sum, 1e-9)

	cfg := s.config()
	cfg.Model = model.KindKNN
	res, err = pipeline.Train(cfg)
	s.Require().NoError(err)
	_, err = pipeline.FeatureImportance(res.Bundle)
	s.ErrorIs(err, pipeline.ErrNoImportances)
}

func (s *PipelineSuite) TestDescribe() {
	sum, err := pipeline.Describe(s.frame, session.ColProductivity)
	s.Require().NoError(err)
	s.Equal(300, sum.Rows)
	s.Equal(len(session.Columns), sum.Columns)
	s.Equal([]string{"ai-ml-course"}, sum.Subjects)
	s.Equal([]pipeline.CategoryCount{
		{Category: session.Distracted, Count: 120},
		{Category: session.SemiAttentive, Count: 114},
		{Category: session.Attentive, Count: 66},
	}, sum.Focus)
	s.GreaterOrEqual(sum.TargetStats.Min, 20.0)
	s.LessOrEqual(sum.TargetStats.Max, 95.0)
	s.Len(sum.Correlations, len(session.BehaviorColumns))
	for _, c := range sum.Correlations {
		if c.Feature == session.ColKeystrokeRate {
			s.Greater(c.R, 0.8)
		}
	}
}

func TestSchemaColumns(t *testing.T) {
	sch := pipeline.Schema{
		Features: []string{session.ColTabSwitches, dataprep.SubjectEncoded, session.ColTabSwitches},
		Target:   session.ColProductivity,
	}
	require.Equal(t, []string{session.ColTabSwitches, session.ColSubject, session.ColProductivity}, sch.Columns())
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
