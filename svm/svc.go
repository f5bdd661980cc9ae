// Package svm provides a kernel support-vector classifier trained with a
// simplified SMO procedure, with optional Platt scaling so the model can
// emit calibrated probabilities alongside its native decision.
package svm

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/core/model"
	"github.com/strokeml/strokeml/pkg/errors"
)

// SVC is a binary support-vector classifier. Labels are given as 0/1 and
// mapped internally to -1/+1.
type SVC struct {
	state *model.StateManager

	// Hyperparameters
	kernel      string  // "rbf" or "linear"
	C           float64 // soft-margin penalty
	gamma       float64 // rbf width; <= 0 means 1 / (n_features * var(X))
	tol         float64
	maxPasses   int
	probability bool
	randomState int64

	// Fitted parameters
	SupportVectors *mat.Dense
	Alphas         []float64 // alpha_i * y_i per support vector
	Bias           float64
	NFeatures      int
	Gamma          float64 // resolved gamma actually used

	// Platt sigmoid P(y=1|f) = 1 / (1 + exp(A*f + B)), fitted on the
	// training decision values when probability is enabled.
	PlattA     float64
	PlattB     float64
	Calibrated bool
}

// SVCOption is a functional option for SVC.
type SVCOption func(*SVC)

// NewSVC creates an SVC with library defaults: RBF kernel, C=1, scaled
// gamma, probability calibration off.
func NewSVC(opts ...SVCOption) *SVC {
	s := &SVC{
		state:     model.NewStateManager(),
		kernel:    "rbf",
		C:         1.0,
		gamma:     0,
		tol:       1e-3,
		maxPasses: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSVCKernel sets the kernel ("rbf" or "linear").
func WithSVCKernel(kernel string) SVCOption {
	return func(s *SVC) {
		s.kernel = kernel
	}
}

// WithSVCC sets the soft-margin penalty.
func WithSVCC(c float64) SVCOption {
	return func(s *SVC) {
		s.C = c
	}
}

// WithSVCGamma sets the RBF kernel width explicitly.
func WithSVCGamma(gamma float64) SVCOption {
	return func(s *SVC) {
		s.gamma = gamma
	}
}

// WithSVCProbability enables Platt-scaled probability output.
func WithSVCProbability(enabled bool) SVCOption {
	return func(s *SVC) {
		s.probability = enabled
	}
}

// WithSVCRandomState seeds the SMO working-pair selection.
func WithSVCRandomState(seed int64) SVCOption {
	return func(s *SVC) {
		s.randomState = seed
	}
}

// Fit trains the classifier on X against binary labels y (an n x 1 matrix of
// 0/1) using the simplified SMO procedure: random second-index selection,
// pairwise alpha updates clipped to the [0, C] box, until a full pass makes
// no progress maxPasses times.
func (s *SVC) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("SVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("SVC.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("SVC.Fit", "y must be a column vector")
	}
	if s.kernel != "rbf" && s.kernel != "linear" {
		return errors.NewValueError("SVC.Fit", "unsupported kernel "+s.kernel)
	}

	signs := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		switch y.At(i, 0) {
		case 1:
			signs[i] = 1
		case 0:
			signs[i] = -1
		default:
			return errors.NewValueError("SVC.Fit", "labels must be binary (0 or 1)")
		}
	}

	s.NFeatures = nFeatures
	s.Gamma = s.resolveGamma(X)

	// Precompute the kernel matrix; training sets here are small enough for
	// the quadratic memory cost.
	K := mat.NewDense(nSamples, nSamples, nil)
	for i := 0; i < nSamples; i++ {
		for j := i; j < nSamples; j++ {
			v := s.kernelRows(X, i, X, j)
			K.Set(i, j, v)
			K.Set(j, i, v)
		}
	}

	alphas := make([]float64, nSamples)
	b := 0.0
	rng := rand.New(rand.NewSource(s.randomState))

	decision := func(i int) float64 {
		sum := b
		for k := 0; k < nSamples; k++ {
			if alphas[k] != 0 {
				sum += alphas[k] * signs[k] * K.At(k, i)
			}
		}
		return sum
	}

	passes := 0
	for passes < s.maxPasses {
		changed := 0
		for i := 0; i < nSamples; i++ {
			Ei := decision(i) - signs[i]
			if !((signs[i]*Ei < -s.tol && alphas[i] < s.C) || (signs[i]*Ei > s.tol && alphas[i] > 0)) {
				continue
			}

			j := rng.Intn(nSamples - 1)
			if j >= i {
				j++
			}
			Ej := decision(j) - signs[j]

			alphaIOld, alphaJOld := alphas[i], alphas[j]

			var lo, hi float64
			if signs[i] != signs[j] {
				lo = math.Max(0, alphas[j]-alphas[i])
				hi = math.Min(s.C, s.C+alphas[j]-alphas[i])
			} else {
				lo = math.Max(0, alphas[i]+alphas[j]-s.C)
				hi = math.Min(s.C, alphas[i]+alphas[j])
			}
			if lo == hi {
				continue
			}

			eta := 2*K.At(i, j) - K.At(i, i) - K.At(j, j)
			if eta >= 0 {
				continue
			}

			alphas[j] -= signs[j] * (Ei - Ej) / eta
			alphas[j] = math.Min(hi, math.Max(lo, alphas[j]))
			if math.Abs(alphas[j]-alphaJOld) < 1e-5 {
				continue
			}

			alphas[i] += signs[i] * signs[j] * (alphaJOld - alphas[j])

			b1 := b - Ei - signs[i]*(alphas[i]-alphaIOld)*K.At(i, i) - signs[j]*(alphas[j]-alphaJOld)*K.At(i, j)
			b2 := b - Ej - signs[i]*(alphas[i]-alphaIOld)*K.At(i, j) - signs[j]*(alphas[j]-alphaJOld)*K.At(j, j)
			switch {
			case alphas[i] > 0 && alphas[i] < s.C:
				b = b1
			case alphas[j] > 0 && alphas[j] < s.C:
				b = b2
			default:
				b = (b1 + b2) / 2
			}

			changed++
		}

		if changed == 0 {
			passes++
		} else {
			passes = 0
		}
	}

	// Keep only the support vectors.
	var svRows []int
	for i, a := range alphas {
		if a > 0 {
			svRows = append(svRows, i)
		}
	}
	if len(svRows) == 0 {
		// Degenerate but possible on trivially separable data; fall back to
		// keeping everything so the decision function stays defined.
		for i := range alphas {
			svRows = append(svRows, i)
		}
	}

	s.SupportVectors = mat.NewDense(len(svRows), nFeatures, nil)
	s.Alphas = make([]float64, len(svRows))
	for k, i := range svRows {
		for j := 0; j < nFeatures; j++ {
			s.SupportVectors.Set(k, j, X.At(i, j))
		}
		s.Alphas[k] = alphas[i] * signs[i]
	}
	s.Bias = b

	s.state.SetDimensions(nFeatures, nSamples)
	s.state.SetFitted()

	if s.probability {
		if err := s.fitPlatt(X, y); err != nil {
			return err
		}
	}
	return nil
}

func (s *SVC) resolveGamma(X mat.Matrix) float64 {
	if s.kernel == "linear" {
		return 0
	}
	if s.gamma > 0 {
		return s.gamma
	}

	// scikit-learn's "scale": 1 / (n_features * Var(X)).
	r, c := X.Dims()
	n := float64(r * c)
	sum, sumSq := 0.0, 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			sum += v
			sumSq += v * v
		}
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance <= 0 {
		variance = 1
	}
	return 1 / (float64(c) * variance)
}

func (s *SVC) kernelRows(A mat.Matrix, i int, B mat.Matrix, j int) float64 {
	_, c := A.Dims()
	if s.kernel == "linear" {
		sum := 0.0
		for k := 0; k < c; k++ {
			sum += A.At(i, k) * B.At(j, k)
		}
		return sum
	}

	distSq := 0.0
	for k := 0; k < c; k++ {
		d := A.At(i, k) - B.At(j, k)
		distSq += d * d
	}
	return math.Exp(-s.Gamma * distSq)
}

// fitPlatt fits the calibration sigmoid on the training decision values by
// gradient descent on the log loss, the same batch loop the logistic model
// uses for its single weight.
func (s *SVC) fitPlatt(X, y mat.Matrix) error {
	df, err := s.DecisionFunction(X)
	if err != nil {
		return err
	}

	nSamples, _ := X.Dims()
	a, b := -1.0, 0.0
	learningRate := 0.1

	for iter := 0; iter < 200; iter++ {
		gradA, gradB := 0.0, 0.0
		// With p = 1/(1+exp(a*f+b)) the log-loss gradient in (a, b) is
		// ((y-p)*f, y-p).
		for i := 0; i < nSamples; i++ {
			f := df.AtVec(i)
			p := plattSigmoid(a, b, f)
			residual := y.At(i, 0) - p
			gradA += residual * f
			gradB += residual
		}
		gradA /= float64(nSamples)
		gradB /= float64(nSamples)

		a -= learningRate * gradA
		b -= learningRate * gradB

		if math.Abs(gradA) < 1e-6 && math.Abs(gradB) < 1e-6 {
			break
		}
	}

	s.PlattA = a
	s.PlattB = b
	s.Calibrated = true
	return nil
}

func plattSigmoid(a, b, f float64) float64 {
	z := a*f + b
	if z > 500 {
		return 0
	}
	if z < -500 {
		return 1
	}
	return 1 / (1 + math.Exp(z))
}

// DecisionFunction returns the signed margin for each row of X.
func (s *SVC) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("SVC", "DecisionFunction")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != s.NFeatures {
		return nil, errors.NewDimensionError("SVC.DecisionFunction", s.NFeatures, nFeatures, 1)
	}

	nSV, _ := s.SupportVectors.Dims()
	out := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		sum := s.Bias
		for k := 0; k < nSV; k++ {
			sum += s.Alphas[k] * s.kernelRows(s.SupportVectors, k, X, i)
		}
		out.SetVec(i, sum)
	}
	return out, nil
}

// Predict returns the native decision: the sign of the margin mapped back to
// 0/1 labels.
func (s *SVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	df, err := s.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	predictions := mat.NewDense(df.Len(), 1, nil)
	for i := 0; i < df.Len(); i++ {
		if df.AtVec(i) >= 0 {
			predictions.Set(i, 0, 1)
		}
	}
	return predictions, nil
}

// PredictProba returns an n x 2 matrix of Platt-calibrated probabilities.
// The model must have been fitted with probability enabled.
func (s *SVC) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("SVC", "PredictProba")
	}
	if !s.Calibrated {
		return nil, errors.NewValueError("SVC.PredictProba", "model was fitted without probability calibration")
	}

	df, err := s.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	probas := mat.NewDense(df.Len(), 2, nil)
	for i := 0; i < df.Len(); i++ {
		p := plattSigmoid(s.PlattA, s.PlattB, df.AtVec(i))
		probas.Set(i, 0, 1-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (s *SVC) Score(X, y mat.Matrix) float64 {
	predictions, err := s.Predict(X)
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
