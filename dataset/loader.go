package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/strokeml/strokeml/pkg/errors"
)

// Columns is the expected CSV header, in order.
var Columns = []string{
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
	"stroke",
}

// Load reads the patient CSV at path. The header must match Columns exactly.
// Every column except bmi is parsed eagerly; bmi is kept as raw text for the
// cleaner, which owns its validation and repair. Any failure here aborts the
// pipeline.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %s", path)
	}
	defer file.Close()

	return read(csv.NewReader(file), path)
}

func read(r *csv.Reader, path string) (*Dataset, error) {
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header of %s", path)
	}
	if len(header) != len(Columns) {
		return nil, errors.NewSchemaError(path, 1, "", "wrong number of columns")
	}
	for i, name := range Columns {
		if header[i] != name {
			return nil, errors.NewSchemaError(path, 1, header[i], "unexpected column, want "+name)
		}
	}

	ds := &Dataset{}
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s line %d", path, line)
		}

		rec, err := parseRecord(row, path, line)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "dataset %s has no rows", path)
	}
	return ds, nil
}

func parseRecord(row []string, path string, line int) (Record, error) {
	var rec Record
	var err error

	rec.Gender = row[0]
	if rec.Age, err = strconv.ParseFloat(row[1], 64); err != nil {
		return rec, errors.NewSchemaError(path, line, "age", "not numeric: "+row[1])
	}
	if rec.Hypertension, err = parseBinary(row[2]); err != nil {
		return rec, errors.NewSchemaError(path, line, "hypertension", "not 0/1: "+row[2])
	}
	if rec.HeartDisease, err = parseBinary(row[3]); err != nil {
		return rec, errors.NewSchemaError(path, line, "heart_disease", "not 0/1: "+row[3])
	}
	rec.EverMarried = row[4]
	rec.WorkType = row[5]
	rec.ResidenceType = row[6]
	if rec.AvgGlucoseLevel, err = strconv.ParseFloat(row[7], 64); err != nil {
		return rec, errors.NewSchemaError(path, line, "avg_glucose_level", "not numeric: "+row[7])
	}
	rec.BMIRaw = row[8]
	rec.SmokingStatus = row[9]
	if rec.Stroke, err = parseBinary(row[10]); err != nil {
		return rec, errors.NewSchemaError(path, line, "stroke", "not 0/1: "+row[10])
	}

	return rec, nil
}

func parseBinary(s string) (int, error) {
	switch s {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	}
	return 0, errors.Newf("invalid binary value %q", s)
}
