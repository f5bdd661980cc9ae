package dataset

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEncode(t *testing.T) {
	ds := &Dataset{Records: []Record{
		{Gender: "Male", Age: 67, Hypertension: 0, HeartDisease: 1, EverMarried: "Yes",
			WorkType: "Private", ResidenceType: "Urban", AvgGlucoseLevel: 228.69,
			BMI: 36.6, SmokingStatus: "formerly smoked", Stroke: 1},
		{Gender: "Female", Age: 61, Hypertension: 1, HeartDisease: 0, EverMarried: "No",
			WorkType: "Self-employed", ResidenceType: "Rural", AvgGlucoseLevel: 202.21,
			BMI: 28.1, SmokingStatus: "never smoked", Stroke: 0},
	}}

	X, y, err := Encode(ds)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	r, c := X.Dims()
	if r != 2 || c != len(FeatureNames) {
		t.Fatalf("X dims = %dx%d, want 2x%d", r, c, len(FeatureNames))
	}

	// Categories encode in sorted order: Female=0 < Male=1.
	if X.At(0, 0) != 1 || X.At(1, 0) != 0 {
		t.Errorf("gender codes = %v/%v, want 1/0", X.At(0, 0), X.At(1, 0))
	}
	if X.At(0, 1) != 67 || X.At(0, 7) != 228.69 || X.At(0, 8) != 36.6 {
		t.Errorf("numeric passthrough wrong: %v", mat.Formatted(X))
	}
	if y.At(0, 0) != 1 || y.At(1, 0) != 0 {
		t.Errorf("labels = %v/%v, want 1/0", y.At(0, 0), y.At(1, 0))
	}
}

func TestSelectRows(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{0, 1, 0})

	subX, subY := SelectRows(X, y, []int{2, 0})
	if subX.At(0, 0) != 5 || subX.At(1, 1) != 2 {
		t.Errorf("SelectRows picked wrong rows: %v", mat.Formatted(subX))
	}
	if subY.At(0, 0) != 0 || subY.At(1, 0) != 0 {
		t.Errorf("SelectRows picked wrong labels: %v", mat.Formatted(subY))
	}
}
