package errors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("Pipeline", "Predict")

	var nfe *NotFittedError
	if !As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if nfe.ModelName != "Pipeline" || nfe.Method != "Predict" {
		t.Errorf("unexpected fields: %+v", nfe)
	}
	if !strings.Contains(err.Error(), "not fitted yet") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestSchemaError(t *testing.T) {
	err := NewSchemaError("NewTask", "petal_width", "not found in dataset")

	var se *SchemaError
	if !As(err, &se) {
		t.Fatalf("expected SchemaError, got %T", err)
	}
	if se.Column != "petal_width" {
		t.Errorf("column = %s, want petal_width", se.Column)
	}
}

func TestTypeError(t *testing.T) {
	err := NewTypeError("NewTask", "species", "continuous", 3, "setosa")

	var te *TypeError
	if !As(err, &te) {
		t.Fatalf("expected TypeError, got %T", err)
	}
	if te.Declared != "continuous" || te.Row != 3 {
		t.Errorf("unexpected fields: %+v", te)
	}
	if !strings.Contains(err.Error(), "declared continuous") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestSchemaMismatchError(t *testing.T) {
	tests := []struct {
		name    string
		missing []string
		extra   []string
		want    string
	}{
		{
			name:    "missing columns",
			missing: []string{"sepal_width", "sepal_length"},
			want:    "missing trained columns [sepal_length, sepal_width]",
		},
		{
			name:  "extra columns",
			extra: []string{"noise"},
			want:  "unexpected columns [noise]",
		},
		{
			name: "order only",
			want: "covariate order differs from training",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSchemaMismatchError("Predict", tt.missing, tt.extra)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("message %q does not contain %q", err.Error(), tt.want)
			}
			var sme *SchemaMismatchError
			if !As(err, &sme) {
				t.Fatalf("expected SchemaMismatchError, got %T", err)
			}
		})
	}
}

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError("PriorClassifier.Train", 2, 0)

	var ide *InsufficientDataError
	if !As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
	if ide.Required != 2 || ide.Got != 0 {
		t.Errorf("unexpected fields: %+v", ide)
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("ColumnSelector.Train", 4, 6, 1)
	if !strings.Contains(err.Error(), "Expected 4, got 6") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestErrorTypesMarshalToZerolog(t *testing.T) {
	cases := []struct {
		name       string
		marshaler  zerolog.LogObjectMarshaler
		wantFields []string
	}{
		{
			name:       "ValueError",
			marshaler:  &ValueError{Op: "partition.TrainTest", Message: "random source is required"},
			wantFields: []string{`"operation":"partition.TrainTest"`, `"type":"ValueError"`},
		},
		{
			name:       "NotFittedError",
			marshaler:  &NotFittedError{ModelName: "Pipeline", Method: "Predict"},
			wantFields: []string{`"model_name":"Pipeline"`, `"type":"NotFittedError"`},
		},
		{
			name:       "SchemaMismatchError",
			marshaler:  &SchemaMismatchError{Op: "Predict", Missing: []string{"f2"}},
			wantFields: []string{`"type":"SchemaMismatchError"`},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			logger.Error().Object("error", tt.marshaler).Msg("failed")
			out := buf.String()
			for _, field := range tt.wantFields {
				if !strings.Contains(out, field) {
					t.Errorf("missing %s in %s", field, out)
				}
			}
		})
	}
}

func TestWrapPreservesType(t *testing.T) {
	inner := NewNotFittedError("Stack", "Predict")
	wrapped := Wrapf(inner, "member %d (%s)", 1, "pipeline-b")

	var nfe *NotFittedError
	if !As(wrapped, &nfe) {
		t.Fatalf("wrapping lost the NotFittedError: %v", wrapped)
	}
	if !strings.Contains(wrapped.Error(), "member 1 (pipeline-b)") {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewDataConversionWarning("sepal_length", "int64", "float64", "design matrix assembly")
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "sepal_length") {
		t.Errorf("unexpected warning: %v", captured)
	}
}
