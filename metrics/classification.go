// Package metrics provides binary classification evaluation: accuracy,
// confusion matrix tallies with derived rates, ROC curves and AUC.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/pkg/errors"
)

// Accuracy returns the fraction of predicted labels equal to the true labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return 0, errors.NewDimensionError("Accuracy", yTrue.Len(), yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < yTrue.Len(); i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(yTrue.Len()), nil
}

// ClassificationError returns 1 - accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix is the 2x2 tally of predicted vs actual binary outcomes.
type ConfusionMatrix struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int
}

// NewConfusionMatrix tallies predictions against true labels. Both vectors
// must contain only 0/1 values.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (*ConfusionMatrix, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return nil, errors.NewDimensionError("NewConfusionMatrix", yTrue.Len(), yPred.Len(), 0)
	}

	cm := &ConfusionMatrix{}
	for i := 0; i < yTrue.Len(); i++ {
		actual, pred := yTrue.AtVec(i), yPred.AtVec(i)
		if (actual != 0 && actual != 1) || (pred != 0 && pred != 1) {
			return nil, errors.NewValueError("NewConfusionMatrix", "labels must be binary (0 or 1)")
		}

		switch {
		case actual == 1 && pred == 1:
			cm.TruePositive++
		case actual == 0 && pred == 0:
			cm.TrueNegative++
		case actual == 0 && pred == 1:
			cm.FalsePositive++
		default:
			cm.FalseNegative++
		}
	}
	return cm, nil
}

// Total returns the number of tallied samples.
func (cm *ConfusionMatrix) Total() int {
	return cm.TruePositive + cm.TrueNegative + cm.FalsePositive + cm.FalseNegative
}

// Accuracy returns (TP+TN) / total.
func (cm *ConfusionMatrix) Accuracy() float64 {
	return float64(cm.TruePositive+cm.TrueNegative) / float64(cm.Total())
}

// Precision returns TP / (TP+FP). When no positive predictions exist the
// metric is ill-defined; a warning is emitted and 0 returned.
func (cm *ConfusionMatrix) Precision() float64 {
	denom := cm.TruePositive + cm.FalsePositive
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0
	}
	return float64(cm.TruePositive) / float64(denom)
}

// Recall returns TP / (TP+FN). When no actual positives exist the metric is
// ill-defined; a warning is emitted and 0 returned.
func (cm *ConfusionMatrix) Recall() float64 {
	denom := cm.TruePositive + cm.FalseNegative
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no actual positives", 0))
		return 0
	}
	return float64(cm.TruePositive) / float64(denom)
}

// Specificity returns TN / (TN+FP), zero when undefined.
func (cm *ConfusionMatrix) Specificity() float64 {
	denom := cm.TrueNegative + cm.FalsePositive
	if denom == 0 {
		return 0
	}
	return float64(cm.TrueNegative) / float64(denom)
}

// F1 returns the harmonic mean of precision and recall, zero when undefined.
func (cm *ConfusionMatrix) F1() float64 {
	p, r := cm.Precision(), cm.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
