package dataset

import (
	"math"
	"testing"
)

func datasetWithBMI(raw []string) *Dataset {
	ds := &Dataset{Records: make([]Record, len(raw))}
	for i, v := range raw {
		ds.Records[i] = Record{BMIRaw: v, Stroke: i % 2}
	}
	return ds
}

func TestCleanBMI(t *testing.T) {
	tests := []struct {
		name         string
		raw          []string
		wantBMI      []float64
		wantInvalid  int
		wantDistinct []string
		wantMedian   float64
	}{
		{
			name:        "all valid stays unchanged",
			raw:         []string{"20.5", "30", "25.1"},
			wantBMI:     []float64{20.5, 30, 25.1},
			wantInvalid: 0,
			wantMedian:  25.1,
		},
		{
			name:         "invalid replaced with median of valid",
			raw:          []string{"20", "N/A", "30", "40"},
			wantBMI:      []float64{20, 30, 30, 40},
			wantInvalid:  1,
			wantDistinct: []string{"N/A"},
			wantMedian:   30,
		},
		{
			name:         "even count averages middle pair",
			raw:          []string{"10", "20", "30", "40", ""},
			wantBMI:      []float64{10, 20, 30, 40, 25},
			wantInvalid:  1,
			wantDistinct: []string{""},
			wantMedian:   25,
		},
		{
			name:         "rejects double decimal point and text",
			raw:          []string{"22.5", "1.2.3", "unknown", "-5", "1.2.3"},
			wantBMI:      []float64{22.5, 22.5, 22.5, 22.5, 22.5},
			wantInvalid:  4,
			wantDistinct: []string{"1.2.3", "unknown", "-5"},
			wantMedian:   22.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := datasetWithBMI(tt.raw)
			report, err := CleanBMI(ds)
			if err != nil {
				t.Fatalf("CleanBMI() error = %v", err)
			}

			if report.Invalid != tt.wantInvalid {
				t.Errorf("Invalid = %d, want %d", report.Invalid, tt.wantInvalid)
			}
			if math.Abs(report.Median-tt.wantMedian) > 1e-12 {
				t.Errorf("Median = %v, want %v", report.Median, tt.wantMedian)
			}
			if len(report.DistinctRaw) != len(tt.wantDistinct) {
				t.Fatalf("DistinctRaw = %v, want %v", report.DistinctRaw, tt.wantDistinct)
			}
			for i, v := range tt.wantDistinct {
				if report.DistinctRaw[i] != v {
					t.Errorf("DistinctRaw[%d] = %q, want %q", i, report.DistinctRaw[i], v)
				}
			}

			for i, want := range tt.wantBMI {
				got := ds.Records[i].BMI
				if math.Abs(got-want) > 1e-12 {
					t.Errorf("record %d bmi = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestCleanBMI_NoValidValues(t *testing.T) {
	ds := datasetWithBMI([]string{"N/A", "", "abc"})
	if _, err := CleanBMI(ds); err == nil {
		t.Fatal("CleanBMI() should fail when no valid values exist")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "odd", values: []float64{3, 1, 2}, want: 2},
		{name: "even", values: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single", values: []float64{7}, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
