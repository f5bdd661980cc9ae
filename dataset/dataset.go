// Package dataset loads the stroke patient CSV into memory, repairs the BMI
// column, encodes features, and produces the stratified train/test partition.
package dataset

// Record is one patient row. BMI starts as the raw cell text and becomes a
// valid number only after Clean has run over the dataset.
type Record struct {
	Gender          string
	Age             float64
	Hypertension    int
	HeartDisease    int
	EverMarried     string
	WorkType        string
	ResidenceType   string
	AvgGlucoseLevel float64
	BMIRaw          string
	BMI             float64
	SmokingStatus   string
	Stroke          int
}

// Dataset is the ordered collection of patient records. It is loaded once,
// mutated in place by Clean, and read-only afterwards.
type Dataset struct {
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Labels returns the stroke labels in row order.
func (d *Dataset) Labels() []int {
	labels := make([]int, len(d.Records))
	for i, r := range d.Records {
		labels[i] = r.Stroke
	}
	return labels
}
