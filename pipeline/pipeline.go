// Package pipeline drives the stroke-risk report end to end: load the CSV,
// repair the BMI column, stratify a 70/30 split, fit the three classifiers,
// evaluate them on the held-out partition, and persist the random forest.
// Control flow is strictly sequential; any stage error aborts the run.
package pipeline

import (
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/dataset"
	"github.com/strokeml/strokeml/ensemble"
	"github.com/strokeml/strokeml/linear"
	"github.com/strokeml/strokeml/metrics"
	"github.com/strokeml/strokeml/pkg/errors"
	"github.com/strokeml/strokeml/pkg/log"
	"github.com/strokeml/strokeml/preprocessing"
	"github.com/strokeml/strokeml/report"
	"github.com/strokeml/strokeml/svm"
)

// Model names used in results and chart files.
const (
	ModelLogistic     = "logistic_regression"
	ModelRandomForest = "random_forest"
	ModelSVM          = "svm"
)

// ModelNames lists the trained models in run order.
var ModelNames = []string{ModelLogistic, ModelRandomForest, ModelSVM}

// Evaluation is the read-only summary of one model against the test
// partition.
type Evaluation struct {
	Name      string
	Confusion *metrics.ConfusionMatrix
	ROC       []metrics.ROCPoint
	AUC       float64
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Result collects everything a run produces.
type Result struct {
	Clean       *dataset.CleanReport
	TrainRows   int
	TestRows    int
	Evaluations []Evaluation
	Importances []float64
}

// classifier is what the evaluator needs from a trained model.
type classifier interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
	PredictProba(X mat.Matrix) (*mat.Dense, error)
}

// Run executes the whole pipeline. Input and persistence failures are
// returned as errors; BMI data-quality findings are logged and compensated.
func Run(cfg Config, logger zerolog.Logger) (*Result, error) {
	start := time.Now()

	// Ingest.
	loadLog := log.ForComponent(logger, "loader")
	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	loadLog.Info().Str("path", cfg.DataPath).Int("rows", ds.Len()).Msg("dataset loaded")

	// Clean.
	cleanLog := log.ForComponent(logger, "cleaner")
	cleanReport, err := dataset.CleanBMI(ds)
	if err != nil {
		return nil, err
	}
	cleanLog.Info().
		Int("invalid", cleanReport.Invalid).
		Strs("distinct_raw", cleanReport.DistinctRaw).
		Float64("median", cleanReport.Median).
		Msg("bmi column repaired")

	// Encode and split.
	X, y, err := dataset.Encode(ds)
	if err != nil {
		return nil, err
	}
	split, err := dataset.StratifiedSplit(ds.Labels(), cfg.TrainRatio, cfg.Seed)
	if err != nil {
		return nil, err
	}
	XTrain, yTrain := dataset.SelectRows(X, y, split.TrainIndices)
	XTest, yTest := dataset.SelectRows(X, y, split.TestIndices)
	splitLog := log.ForComponent(logger, "splitter")
	splitLog.Info().
		Int("train", len(split.TrainIndices)).
		Int("test", len(split.TestIndices)).
		Int64("seed", cfg.Seed).
		Msg("stratified split")

	// The linear and kernel models train on standardized features; the
	// forest consumes the raw encoding (tree splits are scale-invariant).
	scaler := preprocessing.NewStandardScaler()
	XTrainStd, err := scaler.FitTransform(XTrain)
	if err != nil {
		return nil, err
	}
	XTestStd, err := scaler.Transform(XTest)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Clean:     cleanReport,
		TrainRows: len(split.TrainIndices),
		TestRows:  len(split.TestIndices),
	}

	trainLog := log.ForComponent(logger, "trainer")

	// Logistic regression.
	lr := linear.NewLogisticRegression(linear.WithLRRandomState(cfg.Seed))
	if err := fitLogged(trainLog, ModelLogistic, func() error { return lr.Fit(XTrainStd, yTrain) }); err != nil {
		return nil, err
	}

	// Random forest.
	rf := ensemble.NewRandomForestClassifier(
		ensemble.WithForestTrees(cfg.NTrees),
		ensemble.WithForestSeed(cfg.Seed),
	)
	if err := fitLogged(trainLog, ModelRandomForest, func() error { return rf.Fit(XTrain, yTrain) }); err != nil {
		return nil, err
	}
	result.Importances = rf.FeatureImportances()

	// Support-vector machine with calibrated probabilities.
	svc := svm.NewSVC(
		svm.WithSVCProbability(true),
		svm.WithSVCRandomState(cfg.Seed),
	)
	if err := fitLogged(trainLog, ModelSVM, func() error { return svc.Fit(XTrainStd, yTrain) }); err != nil {
		return nil, err
	}

	// Evaluate.
	evalLog := log.ForComponent(logger, "evaluator")
	for _, m := range []struct {
		name string
		clf  classifier
		X    mat.Matrix
	}{
		{ModelLogistic, lr, XTestStd},
		{ModelRandomForest, rf, XTest},
		{ModelSVM, svc, XTestStd},
	} {
		ev, err := evaluate(m.name, m.clf, m.X, yTest)
		if err != nil {
			return nil, err
		}
		result.Evaluations = append(result.Evaluations, *ev)
		evalLog.Info().
			Str("model", ev.Name).
			Float64("accuracy", ev.Accuracy).
			Float64("auc", ev.AUC).
			Int("tp", ev.Confusion.TruePositive).
			Int("tn", ev.Confusion.TrueNegative).
			Int("fp", ev.Confusion.FalsePositive).
			Int("fn", ev.Confusion.FalseNegative).
			Msg("model evaluated")
	}

	// Charts are a diagnostic side product; failures there are logged, not
	// fatal.
	if cfg.PlotsDir != "" {
		if err := renderCharts(cfg.PlotsDir, result); err != nil {
			reportLog := log.ForComponent(logger, "report")
			reportLog.Warn().Err(err).Msg("chart rendering failed")
		}
	}

	// Persist the chosen model.
	if err := rf.Save(cfg.ModelPath); err != nil {
		return nil, err
	}
	persistLog := log.ForComponent(logger, "persister")
	persistLog.Info().
		Str("path", cfg.ModelPath).
		Msg("random forest persisted")

	logger.Info().Dur("elapsed", time.Since(start)).Msg("pipeline finished")
	return result, nil
}

func fitLogged(logger zerolog.Logger, name string, fit func() error) error {
	start := time.Now()
	if err := fit(); err != nil {
		return errors.Wrapf(err, "training %s failed", name)
	}
	logger.Info().Str("model", name).Dur("elapsed", time.Since(start)).Msg("model trained")
	return nil
}

// evaluate produces the confusion matrix and ROC summary of one model on the
// test partition. Class predictions use the model's own decision rule; the
// ROC sweep uses the positive-class probability scores.
func evaluate(name string, clf classifier, XTest mat.Matrix, yTest *mat.Dense) (*Evaluation, error) {
	pred, err := clf.Predict(XTest)
	if err != nil {
		return nil, err
	}
	proba, err := clf.PredictProba(XTest)
	if err != nil {
		return nil, err
	}

	n, _ := yTest.Dims()
	yVec := mat.NewVecDense(n, nil)
	predVec := mat.NewVecDense(n, nil)
	scoreVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yVec.SetVec(i, yTest.At(i, 0))
		predVec.SetVec(i, pred.At(i, 0))
		scoreVec.SetVec(i, proba.At(i, 1))
	}

	cm, err := metrics.NewConfusionMatrix(yVec, predVec)
	if err != nil {
		return nil, err
	}
	roc, err := metrics.ROCCurve(yVec, scoreVec)
	if err != nil {
		return nil, err
	}
	auc, err := metrics.AUC(yVec, scoreVec)
	if err != nil {
		return nil, err
	}

	return &Evaluation{
		Name:      name,
		Confusion: cm,
		ROC:       roc,
		AUC:       auc,
		Accuracy:  cm.Accuracy(),
		Precision: cm.Precision(),
		Recall:    cm.Recall(),
		F1:        cm.F1(),
	}, nil
}

func renderCharts(dir string, result *Result) error {
	curves := make(map[string][]metrics.ROCPoint, len(result.Evaluations))
	for _, ev := range result.Evaluations {
		curves[ev.Name] = ev.ROC
		if err := report.SaveROCPlot(ev.ROC, ev.Name, report.PNGPath(dir, "roc_"+ev.Name)); err != nil {
			return err
		}
	}
	if err := report.SaveCombinedROCPlot(curves, ModelNames, report.PNGPath(dir, "roc_all")); err != nil {
		return err
	}
	return report.SaveImportancePlot(dataset.FeatureNames, result.Importances, report.PNGPath(dir, "feature_importances"))
}
