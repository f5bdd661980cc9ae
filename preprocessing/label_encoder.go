package preprocessing

import (
	"sort"

	"github.com/strokeml/strokeml/pkg/errors"
)

// LabelEncoder maps categorical string values to integer codes. Classes are
// sorted lexicographically so the encoding is independent of row order.
type LabelEncoder struct {
	Classes []string
	index   map[string]int
}

// NewLabelEncoder creates an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit learns the distinct values present in the column.
func (le *LabelEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return errors.NewValueError("LabelEncoder.Fit", "empty column")
	}

	seen := make(map[string]bool)
	for _, v := range values {
		seen[v] = true
	}

	le.Classes = make([]string, 0, len(seen))
	for v := range seen {
		le.Classes = append(le.Classes, v)
	}
	sort.Strings(le.Classes)

	le.index = make(map[string]int, len(le.Classes))
	for i, v := range le.Classes {
		le.index[v] = i
	}
	return nil
}

// Transform converts values to their integer codes. A value never seen
// during Fit is an error; the pipeline fits encoders on the full cleaned
// dataset before splitting, so this only fires on schema drift.
func (le *LabelEncoder) Transform(values []string) ([]float64, error) {
	if le.index == nil {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}

	out := make([]float64, len(values))
	for i, v := range values {
		code, ok := le.index[v]
		if !ok {
			return nil, errors.Newf("LabelEncoder.Transform: unseen category %q", v)
		}
		out[i] = float64(code)
	}
	return out, nil
}

// FitTransform fits the encoder and encodes the same column.
func (le *LabelEncoder) FitTransform(values []string) ([]float64, error) {
	if err := le.Fit(values); err != nil {
		return nil, err
	}
	return le.Transform(values)
}
