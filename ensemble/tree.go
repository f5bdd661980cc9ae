// Package ensemble provides the CART decision tree and the bagged random
// forest classifier that is the persisted artifact of the pipeline.
package ensemble

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/core/model"
	"github.com/strokeml/strokeml/pkg/errors"
)

// TreeNode is one node of a fitted decision tree. Fields are exported so a
// persisted forest survives gob encoding.
type TreeNode struct {
	IsLeaf    bool
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode

	// Leaf statistics: counts per class over the training rows that reached
	// this node. ClassCounts[1]/Samples is the positive-class probability.
	Samples     int
	ClassCounts [2]int
}

// DecisionTreeClassifier is a binary CART classifier splitting on Gini
// impurity.
type DecisionTreeClassifier struct {
	state *model.StateManager

	MaxDepth        int
	MinSamplesSplit int

	Root      *TreeNode
	NFeatures int

	// Weighted impurity decrease accumulated per feature during fitting.
	importances []float64
}

// DecisionTreeOption is a functional option for DecisionTreeClassifier.
type DecisionTreeOption func(*DecisionTreeClassifier)

// NewDecisionTreeClassifier creates a tree with the given options. Defaults:
// unlimited growth is capped at depth 10, nodes below 2 samples never split.
func NewDecisionTreeClassifier(opts ...DecisionTreeOption) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		MaxDepth:        10,
		MinSamplesSplit: 2,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// WithTreeMaxDepth caps the tree depth.
func WithTreeMaxDepth(depth int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.MaxDepth = depth
	}
}

// WithTreeMinSamplesSplit sets the minimum node size eligible for splitting.
func WithTreeMinSamplesSplit(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.MinSamplesSplit = n
	}
}

// Fit grows the tree on X against binary labels y (an n x 1 matrix of 0/1).
// candidateFeatures restricts splits to a feature subset; nil means all
// features (the forest passes each tree its random subspace).
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	return dt.FitSubspace(X, y, nil)
}

// FitSubspace is Fit restricted to the given feature indices.
func (dt *DecisionTreeClassifier) FitSubspace(X, y mat.Matrix, candidateFeatures []int) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "y must be a column vector")
	}

	labels := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return errors.NewValueError("DecisionTreeClassifier.Fit", "labels must be binary (0 or 1)")
		}
		labels[i] = int(v)
	}

	if candidateFeatures == nil {
		candidateFeatures = make([]int, nFeatures)
		for j := range candidateFeatures {
			candidateFeatures[j] = j
		}
	}

	rows := make([]int, nSamples)
	for i := range rows {
		rows[i] = i
	}

	dt.NFeatures = nFeatures
	dt.importances = make([]float64, nFeatures)
	dt.Root = dt.grow(X, labels, rows, candidateFeatures, 0, nSamples)

	dt.state.SetDimensions(nFeatures, nSamples)
	dt.state.SetFitted()
	return nil
}

func (dt *DecisionTreeClassifier) grow(X mat.Matrix, labels, rows, features []int, depth, total int) *TreeNode {
	node := &TreeNode{Samples: len(rows)}
	for _, i := range rows {
		node.ClassCounts[labels[i]]++
	}

	impurity := gini(node.ClassCounts)
	if depth >= dt.MaxDepth || len(rows) < dt.MinSamplesSplit || impurity == 0 {
		node.IsLeaf = true
		return node
	}

	feature, threshold, decrease := dt.bestSplit(X, labels, rows, features, impurity)
	if decrease <= 0 {
		node.IsLeaf = true
		return node
	}

	var left, right []int
	for _, i := range rows {
		if X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		node.IsLeaf = true
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	dt.importances[feature] += decrease * float64(len(rows)) / float64(total)

	node.Left = dt.grow(X, labels, left, features, depth+1, total)
	node.Right = dt.grow(X, labels, right, features, depth+1, total)
	return node
}

// bestSplit scans candidate thresholds (midpoints between consecutive
// distinct values) on each candidate feature and returns the split with the
// largest impurity decrease.
func (dt *DecisionTreeClassifier) bestSplit(X mat.Matrix, labels, rows, features []int, parentImpurity float64) (int, float64, float64) {
	bestFeature, bestThreshold, bestDecrease := -1, 0.0, 0.0
	n := float64(len(rows))

	for _, feature := range features {
		values := make([]float64, len(rows))
		for k, i := range rows {
			values[k] = X.At(i, feature)
		}
		sort.Float64s(values)

		for k := 1; k < len(values); k++ {
			if values[k] == values[k-1] {
				continue
			}
			threshold := (values[k] + values[k-1]) / 2

			var leftCounts, rightCounts [2]int
			for _, i := range rows {
				if X.At(i, feature) <= threshold {
					leftCounts[labels[i]]++
				} else {
					rightCounts[labels[i]]++
				}
			}

			nLeft := float64(leftCounts[0] + leftCounts[1])
			nRight := float64(rightCounts[0] + rightCounts[1])
			if nLeft == 0 || nRight == 0 {
				continue
			}

			weighted := (nLeft/n)*gini(leftCounts) + (nRight/n)*gini(rightCounts)
			decrease := parentImpurity - weighted
			if decrease > bestDecrease {
				bestFeature, bestThreshold, bestDecrease = feature, threshold, decrease
			}
		}
	}

	return bestFeature, bestThreshold, bestDecrease
}

func gini(counts [2]int) float64 {
	total := float64(counts[0] + counts[1])
	if total == 0 {
		return 0
	}
	p0 := float64(counts[0]) / total
	p1 := float64(counts[1]) / total
	return 1 - p0*p0 - p1*p1
}

// Predict returns the majority class of the leaf each row lands in.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := dt.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := proba.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if proba.At(i, 1) >= 0.5 {
			predictions.Set(i, 0, 1)
		}
	}
	return predictions, nil
}

// PredictProba returns an n x 2 matrix of leaf class frequencies.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if !dt.state.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != dt.NFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.NFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	for i := 0; i < nSamples; i++ {
		node := dt.Root
		for !node.IsLeaf {
			if X.At(i, node.Feature) <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		total := float64(node.Samples)
		probas.Set(i, 0, float64(node.ClassCounts[0])/total)
		probas.Set(i, 1, float64(node.ClassCounts[1])/total)
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	predictions, err := dt.Predict(X)
	if err != nil {
		return 0
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples)
}

// FeatureImportances returns the accumulated impurity decrease per feature,
// normalized to sum to one. Zero vector when no split was made.
func (dt *DecisionTreeClassifier) FeatureImportances() []float64 {
	out := make([]float64, len(dt.importances))
	copy(out, dt.importances)

	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if sum > 0 {
		for j := range out {
			out[j] /= sum
		}
	}
	return out
}
