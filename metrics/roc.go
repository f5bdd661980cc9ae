package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/pkg/errors"
)

// ROCPoint is one point of a receiver-operating-characteristic curve: the
// false- and true-positive rates obtained by thresholding scores at
// Threshold (predict positive when score >= Threshold).
type ROCPoint struct {
	FPR       float64
	TPR       float64
	Threshold float64
}

// ROCCurve sweeps the classification threshold over the distinct predicted
// scores and returns the resulting curve, starting at (0, 0) with threshold
// +Inf and ending at (1, 1). Rows are ordered by score descending, stable by
// original row order; rows with equal scores collapse into a single
// threshold step, so tie order never changes the curve. Both classes must be
// present in yTrue.
func ROCCurve(yTrue, score *mat.VecDense) ([]ROCPoint, error) {
	if yTrue == nil || score == nil || yTrue.Len() == 0 {
		return nil, errors.NewValueError("ROCCurve", "empty vector")
	}
	n := yTrue.Len()
	if score.Len() != n {
		return nil, errors.NewDimensionError("ROCCurve", n, score.Len(), 0)
	}

	positives, negatives := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			positives++
		case 0:
			negatives++
		default:
			return nil, errors.NewValueError("ROCCurve", "labels must be binary (0 or 1)")
		}
	}
	if positives == 0 || negatives == 0 {
		return nil, errors.NewValueError("ROCCurve", "both classes must be present")
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return score.AtVec(order[a]) > score.AtVec(order[b])
	})

	curve := []ROCPoint{{FPR: 0, TPR: 0, Threshold: math.Inf(1)}}
	tp, fp := 0, 0
	for i := 0; i < n; i++ {
		idx := order[i]
		if yTrue.AtVec(idx) == 1 {
			tp++
		} else {
			fp++
		}

		// Emit a point only once all rows sharing this score are consumed.
		if i+1 < n && score.AtVec(order[i+1]) == score.AtVec(idx) {
			continue
		}
		curve = append(curve, ROCPoint{
			FPR:       float64(fp) / float64(negatives),
			TPR:       float64(tp) / float64(positives),
			Threshold: score.AtVec(idx),
		})
	}

	return curve, nil
}

// AUC returns the area under the ROC curve by trapezoidal integration.
// Labels must be binary. When only one class is present the metric is
// undefined; a warning is emitted and 0.5 returned.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return 0, errors.NewDimensionError("AUC", yTrue.Len(), yPred.Len(), 0)
	}

	positives, negatives := 0, 0
	for i := 0; i < yTrue.Len(); i++ {
		switch yTrue.AtVec(i) {
		case 1:
			positives++
		case 0:
			negatives++
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}
	if positives == 0 || negatives == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("auc", "only one class present", 0.5))
		return 0.5, nil
	}

	curve, err := ROCCurve(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	area := 0.0
	for i := 1; i < len(curve); i++ {
		area += (curve[i].FPR - curve[i-1].FPR) * (curve[i].TPR + curve[i-1].TPR) / 2
	}
	return area, nil
}

// AUCMatrix computes AUC from single-column matrices; only the first column
// of each input is used.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tVec, err := firstColumn(yTrue, "AUCMatrix")
	if err != nil {
		return 0, err
	}
	pVec, err := firstColumn(yPred, "AUCMatrix")
	if err != nil {
		return 0, err
	}
	return AUC(tVec, pVec)
}

func firstColumn(m mat.Matrix, op string) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
