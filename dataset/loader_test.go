package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `gender,age,hypertension,heart_disease,ever_married,work_type,Residence_type,avg_glucose_level,bmi,smoking_status,stroke
Male,67,0,1,Yes,Private,Urban,228.69,36.6,formerly smoked,1
Female,61,0,0,Yes,Self-employed,Rural,202.21,N/A,never smoked,1
Male,80,0,1,Yes,Private,Rural,105.92,32.5,never smoked,0
Female,49,0,0,Yes,Private,Urban,171.23,34.4,smokes,0
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stroke.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test csv: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	ds, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ds.Len() != 4 {
		t.Fatalf("Load() rows = %d, want 4", ds.Len())
	}

	first := ds.Records[0]
	if first.Gender != "Male" || first.Age != 67 || first.HeartDisease != 1 {
		t.Errorf("first record parsed wrong: %+v", first)
	}
	if first.BMIRaw != "36.6" {
		t.Errorf("bmi kept raw = %q, want \"36.6\"", first.BMIRaw)
	}
	if ds.Records[1].BMIRaw != "N/A" {
		t.Errorf("invalid bmi cell must survive loading, got %q", ds.Records[1].BMIRaw)
	}

	labels := ds.Labels()
	want := []int{1, 1, 0, 0}
	for i, l := range labels {
		if l != want[i] {
			t.Errorf("Labels()[%d] = %d, want %d", i, l, want[i])
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("Load() on missing file should fail")
	}
}

func TestLoad_BadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "wrong header",
			csv:  "a,b,c\n1,2,3\n",
		},
		{
			name: "renamed column",
			csv:  strings.Replace(sampleCSV, "avg_glucose_level", "glucose", 1),
		},
		{
			name: "non numeric age",
			csv:  strings.Replace(sampleCSV, "Male,67", "Male,old", 1),
		},
		{
			name: "non binary stroke",
			csv:  strings.Replace(sampleCSV, "formerly smoked,1", "formerly smoked,2", 1),
		},
		{
			name: "no rows",
			csv:  strings.SplitAfter(sampleCSV, "\n")[0],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeCSV(t, tt.csv)); err == nil {
				t.Errorf("Load() should fail for %s", tt.name)
			}
		})
	}
}
