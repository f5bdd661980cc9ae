package ensemble

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/core/model"
	"github.com/strokeml/strokeml/core/parallel"
	"github.com/strokeml/strokeml/pkg/errors"
)

// RandomForestClassifier is a bagged ensemble of CART trees. Each tree is
// grown on a bootstrap sample of the rows over a random sqrt-sized feature
// subset. Tree i derives its generator from Seed+i, so sequential and
// parallel training produce identical forests.
//
// All persisted fields are exported; a forest written with model.SaveModel
// can be restored by LoadRandomForest and used for prediction directly.
type RandomForestClassifier struct {
	State *model.StateManager

	NTrees          int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64

	Roots       []*TreeNode
	NFeatures   int
	Importances []float64
}

// RandomForestOption is a functional option for RandomForestClassifier.
type RandomForestOption func(*RandomForestClassifier)

// NewRandomForestClassifier creates a forest with the given options.
// Defaults: 100 trees, depth cap 10, seed 0.
func NewRandomForestClassifier(opts ...RandomForestOption) *RandomForestClassifier {
	rf := &RandomForestClassifier{
		State:           model.NewStateManager(),
		NTrees:          100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// WithForestTrees sets the number of trees.
func WithForestTrees(n int) RandomForestOption {
	return func(rf *RandomForestClassifier) {
		rf.NTrees = n
	}
}

// WithForestMaxDepth caps the depth of each tree.
func WithForestMaxDepth(depth int) RandomForestOption {
	return func(rf *RandomForestClassifier) {
		rf.MaxDepth = depth
	}
}

// WithForestSeed sets the base seed for bootstrap and feature sampling.
func WithForestSeed(seed int64) RandomForestOption {
	return func(rf *RandomForestClassifier) {
		rf.Seed = seed
	}
}

// Fit trains the ensemble on X against binary labels y (an n x 1 matrix of
// 0/1). Trees are trained in parallel across CPU cores.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("RandomForestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("RandomForestClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("RandomForestClassifier.Fit", "y must be a column vector")
	}
	if rf.NTrees <= 0 {
		return errors.NewValueError("RandomForestClassifier.Fit", "number of trees must be positive")
	}

	maxFeatures := int(math.Sqrt(float64(nFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rf.NFeatures = nFeatures
	rf.Roots = make([]*TreeNode, rf.NTrees)
	perTreeImportances := make([][]float64, rf.NTrees)
	fitErrs := make([]error, rf.NTrees)

	parallel.Parallelize(rf.NTrees, func(start, end int) {
		for t := start; t < end; t++ {
			rng := rand.New(rand.NewSource(rf.Seed + int64(t)))

			// Bootstrap rows with replacement.
			XBoot := mat.NewDense(nSamples, nFeatures, nil)
			yBoot := mat.NewDense(nSamples, 1, nil)
			for i := 0; i < nSamples; i++ {
				src := rng.Intn(nSamples)
				for j := 0; j < nFeatures; j++ {
					XBoot.Set(i, j, X.At(src, j))
				}
				yBoot.Set(i, 0, y.At(src, 0))
			}

			features := sampleFeatures(nFeatures, maxFeatures, rng)

			tree := NewDecisionTreeClassifier(
				WithTreeMaxDepth(rf.MaxDepth),
				WithTreeMinSamplesSplit(rf.MinSamplesSplit),
			)
			if err := tree.FitSubspace(XBoot, yBoot, features); err != nil {
				fitErrs[t] = err
				continue
			}

			rf.Roots[t] = tree.Root
			perTreeImportances[t] = tree.FeatureImportances()
		}
	})

	for t, err := range fitErrs {
		if err != nil {
			return errors.Wrapf(err, "tree %d training failed", t)
		}
	}

	// Mean per-tree importance, renormalized across the forest.
	rf.Importances = make([]float64, nFeatures)
	for _, imp := range perTreeImportances {
		for j, v := range imp {
			rf.Importances[j] += v
		}
	}
	sum := 0.0
	for _, v := range rf.Importances {
		sum += v
	}
	if sum > 0 {
		for j := range rf.Importances {
			rf.Importances[j] /= sum
		}
	}

	rf.State.SetDimensions(nFeatures, nSamples)
	rf.State.SetFitted()
	return nil
}

// sampleFeatures draws k distinct feature indices by partial Fisher-Yates.
func sampleFeatures(n, k int, rng *rand.Rand) []int {
	features := make([]int, n)
	for i := range features {
		features[i] = i
	}
	for i := 0; i < k && i < n; i++ {
		j := i + rng.Intn(n-i)
		features[i], features[j] = features[j], features[i]
	}
	return features[:k]
}

// Predict returns class labels from the averaged tree vote, thresholded at
// one half.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := rf.PredictProba(X)
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

// PredictProba returns an n x 2 matrix of class probabilities, the mean of
// the leaf class frequencies across trees.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if rf.State == nil || !rf.State.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "PredictProba")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != rf.NFeatures {
		return nil, errors.NewDimensionError("RandomForestClassifier.PredictProba", rf.NFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	parallel.ParallelizeWithThreshold(nSamples, 256, func(start, end int) {
		for i := start; i < end; i++ {
			sum := 0.0
			for _, root := range rf.Roots {
				node := root
				for !node.IsLeaf {
					if X.At(i, node.Feature) <= node.Threshold {
						node = node.Left
					} else {
						node = node.Right
					}
				}
				sum += float64(node.ClassCounts[1]) / float64(node.Samples)
			}
			p := sum / float64(len(rf.Roots))
			probas.Set(i, 0, 1-p)
			probas.Set(i, 1, p)
		}
	})
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (rf *RandomForestClassifier) Score(X, y mat.Matrix) float64 {
	predictions, err := rf.Predict(X)
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

// FeatureImportances returns the normalized mean impurity decrease per
// feature recorded during fitting.
func (rf *RandomForestClassifier) FeatureImportances() []float64 {
	out := make([]float64, len(rf.Importances))
	copy(out, rf.Importances)
	return out
}

// Save persists the forest to the named file, overwriting any existing file.
func (rf *RandomForestClassifier) Save(filename string) error {
	return model.SaveModel(rf, filename)
}

// LoadRandomForest restores a forest previously written by Save.
func LoadRandomForest(filename string) (*RandomForestClassifier, error) {
	rf := &RandomForestClassifier{}
	if err := model.LoadModel(rf, filename); err != nil {
		return nil, err
	}
	if rf.State == nil || !rf.State.IsFitted() {
		return nil, errors.NewModelError("LoadRandomForest", "file does not contain a fitted forest", nil)
	}
	return rf, nil
}
