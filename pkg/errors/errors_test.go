package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "strokeml: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "strokeml: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewModelError_UnwrapsCause(t *testing.T) {
	err := NewModelError("Fit", "empty data", ErrEmptyData)
	if !Is(err, ErrEmptyData) {
		t.Error("ModelError should unwrap to its cause")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 7, 1)

	want := "strokeml: Predict: dimension mismatch on axis 1 (features). Expected 10, got 7"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LogisticRegression", "Predict")

	want := "strokeml: LogisticRegression: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var nfErr *NotFittedError
	if !As(err, &nfErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewSchemaError(t *testing.T) {
	tests := []struct {
		name   string
		column string
		want   string
	}{
		{
			name:   "with column",
			column: "bmi",
			want:   `strokeml: data.csv:3: column "bmi": not a number`,
		},
		{
			name:   "without column",
			column: "",
			want:   "strokeml: data.csv:3: not a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSchemaError("data.csv", 3, tt.column, "not a number")
			if err.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.want)
			}
		})
	}
}

func TestWarn_CustomHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) {
		captured = w
	})
	defer SetWarningHandler(nil)

	warning := NewDataQualityWarning("bmi", 2, []string{"N/A"}, 28.1)
	Warn(warning)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), `column "bmi"`) {
		t.Errorf("warning message = %q, want bmi column mention", captured.Error())
	}
	if !strings.Contains(captured.Error(), "28.1") {
		t.Errorf("warning message = %q, want imputed value", captured.Error())
	}
}

func TestWarn_ZerologSinkTakesPrecedence(t *testing.T) {
	handlerCalled := false
	SetWarningHandler(func(w error) {
		handlerCalled = true
	})
	defer SetWarningHandler(nil)

	var sunk error
	SetZerologWarnFunc(func(w error) {
		sunk = w
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewUndefinedMetricWarning("auc", "only one class present", 0.5))

	if sunk == nil {
		t.Fatal("zerolog sink was not invoked")
	}
	if handlerCalled {
		t.Error("plain handler should be bypassed when a zerolog sink is set")
	}
}

func TestUndefinedMetricWarning_Message(t *testing.T) {
	w := NewUndefinedMetricWarning("precision", "no predicted positives", 0)
	want := "'precision' is ill-defined and being set to 0.000000 due to no predicted positives."
	if w.Error() != want {
		t.Errorf("Error() = %v, want %v", w.Error(), want)
	}
}
