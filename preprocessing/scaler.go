// Package preprocessing provides the feature transformations applied before
// model fitting: categorical label encoding and standardization.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/core/model"
	"github.com/strokeml/strokeml/pkg/errors"
)

// StandardScaler transforms each feature column to zero mean and unit
// variance. Statistics are computed by Fit and reused by Transform, so the
// scaler can be fit on the train partition and applied to the test partition
// without leaking test statistics.
type StandardScaler struct {
	state *model.StateManager

	// Mean and Scale hold the per-feature statistics learned by Fit.
	Mean  []float64
	Scale []float64

	NFeatures int
}

// NewStandardScaler creates an unfitted StandardScaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager()}
}

// Fit computes per-column mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		s.Mean[j] = sum / float64(r)
	}

	for j := 0; j < c; j++ {
		var ss float64
		for i := 0; i < r; i++ {
			d := X.At(i, j) - s.Mean[j]
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(r))
		if sd == 0 {
			// Constant column; dividing by 1 leaves it centered at zero.
			sd = 1
		}
		s.Scale[j] = sd
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform standardizes X using the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler on X and returns the standardized matrix.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
