package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/strokeml/strokeml/preprocessing"
)

// FeatureNames lists the model feature columns in matrix order. Categorical
// columns are label-encoded; the rest pass through as numbers.
var FeatureNames = []string{
	"gender",
	"age",
	"hypertension",
	"heart_disease",
	"ever_married",
	"work_type",
	"Residence_type",
	"avg_glucose_level",
	"bmi",
	"smoking_status",
}

// Encode converts the cleaned dataset into a feature matrix and a label
// column vector. Encoders are fit on the whole dataset before splitting so
// train and test rows share one category mapping.
func Encode(ds *Dataset) (X *mat.Dense, y *mat.Dense, err error) {
	n := ds.Len()

	categorical := map[string][]string{
		"gender":         make([]string, n),
		"ever_married":   make([]string, n),
		"work_type":      make([]string, n),
		"Residence_type": make([]string, n),
		"smoking_status": make([]string, n),
	}
	for i, r := range ds.Records {
		categorical["gender"][i] = r.Gender
		categorical["ever_married"][i] = r.EverMarried
		categorical["work_type"][i] = r.WorkType
		categorical["Residence_type"][i] = r.ResidenceType
		categorical["smoking_status"][i] = r.SmokingStatus
	}

	encoded := make(map[string][]float64, len(categorical))
	for name, values := range categorical {
		codes, err := preprocessing.NewLabelEncoder().FitTransform(values)
		if err != nil {
			return nil, nil, err
		}
		encoded[name] = codes
	}

	X = mat.NewDense(n, len(FeatureNames), nil)
	y = mat.NewDense(n, 1, nil)
	for i, r := range ds.Records {
		X.Set(i, 0, encoded["gender"][i])
		X.Set(i, 1, r.Age)
		X.Set(i, 2, float64(r.Hypertension))
		X.Set(i, 3, float64(r.HeartDisease))
		X.Set(i, 4, encoded["ever_married"][i])
		X.Set(i, 5, encoded["work_type"][i])
		X.Set(i, 6, encoded["Residence_type"][i])
		X.Set(i, 7, r.AvgGlucoseLevel)
		X.Set(i, 8, r.BMI)
		X.Set(i, 9, encoded["smoking_status"][i])
		y.Set(i, 0, float64(r.Stroke))
	}

	return X, y, nil
}

// SelectRows copies the given rows of X and y into new matrices, preserving
// the order of indices.
func SelectRows(X, y *mat.Dense, indices []int) (*mat.Dense, *mat.Dense) {
	_, c := X.Dims()
	outX := mat.NewDense(len(indices), c, nil)
	outY := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			outX.Set(i, j, X.At(idx, j))
		}
		outY.Set(i, 0, y.At(idx, 0))
	}
	return outX, outY
}
