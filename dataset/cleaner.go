package dataset

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/strokeml/strokeml/pkg/errors"
)

// bmiPattern accepts digits with at most one decimal point. Anything else in
// the raw bmi column (empty cells, "N/A", stray text) counts as missing.
var bmiPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// CleanReport summarizes the BMI repair for diagnostics. It never makes a
// run fail.
type CleanReport struct {
	Rows        int
	Invalid     int
	DistinctRaw []string
	Median      float64
}

// CleanBMI validates the BMI column in place. Raw values matching the numeric
// pattern keep their parsed value unchanged; everything else is marked missing
// and then replaced with the median of the valid values, computed after
// marking. The dataset must contain at least one valid BMI value.
func CleanBMI(ds *Dataset) (*CleanReport, error) {
	report := &CleanReport{Rows: ds.Len()}

	valid := make([]float64, 0, ds.Len())
	missing := make([]int, 0)
	distinct := make(map[string]bool)

	for i := range ds.Records {
		raw := ds.Records[i].BMIRaw
		if bmiPattern.MatchString(raw) {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				// Unreachable for pattern-matched input, but fatal if it happens.
				return nil, errors.Wrapf(err, "bmi %q matched pattern but failed to parse", raw)
			}
			ds.Records[i].BMI = v
			valid = append(valid, v)
			continue
		}

		missing = append(missing, i)
		if !distinct[raw] {
			distinct[raw] = true
			report.DistinctRaw = append(report.DistinctRaw, raw)
		}
	}

	report.Invalid = len(missing)

	if len(valid) == 0 {
		return nil, errors.NewValueError("CleanBMI", "no valid bmi values to impute from")
	}

	report.Median = median(valid)
	for _, i := range missing {
		ds.Records[i].BMI = report.Median
	}

	if report.Invalid > 0 {
		errors.Warn(errors.NewDataQualityWarning("bmi", report.Invalid, report.DistinctRaw, report.Median))
	}

	return report, nil
}

// median returns the middle order statistic, averaging the two central values
// for even-length input.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
