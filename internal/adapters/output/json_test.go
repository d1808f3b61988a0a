// internal/adapters/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dossier/internal/core/domain"
	"dossier/internal/platform/errors"
	"dossier/internal/testutil"
)

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeJSON(sampleRecord(), &buf)
	testutil.RequireNoError(t, err, "encode should succeed")

	var decoded struct {
		Target  string `json:"target"`
		Input   string `json:"input"`
		Results []struct {
			Category string                     `json:"category"`
			Status   string                     `json:"status"`
			Failure  string                     `json:"failure"`
			Payload  map[string]json.RawMessage `json:"payload"`
		} `json:"results"`
	}
	testutil.RequireNoError(t, json.Unmarshal(buf.Bytes(), &decoded), "valid JSON")

	testutil.AssertEqual(t, decoded.Target, "www.example.com", "target")
	testutil.AssertEqual(t, decoded.Input, "https://www.example.com/shop", "input")
	testutil.AssertEqual(t, len(decoded.Results), 9, "every category present")
	testutil.AssertEqual(t, decoded.Results[0].Category, "whois", "report order")
	testutil.AssertEqual(t, decoded.Results[3].Failure, "connection refused", "failure kept")
	testutil.AssertEqual(t, decoded.Results[8].Failure, domain.MissingReason, "missing category filled")

	_, hasRegistrar := decoded.Results[0].Payload["Registrar"]
	testutil.AssertTrue(t, hasRegistrar, "payload fields exported")
	testutil.AssertContains(t, buf.String(), "\n  \"target\"", "indented output")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "example_com_1.json")

	err := WriteJSON(sampleRecord(), path)
	testutil.RequireNoError(t, err, "write should succeed")

	data, err := os.ReadFile(path)
	testutil.RequireNoError(t, err, "file exists")
	testutil.AssertTrue(t, json.Valid(data), "file holds valid JSON")
}

func TestWriteJSON_Errors(t *testing.T) {
	err := WriteJSON(sampleRecord(), "")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidOutputPath), "empty path rejected")

	err = WriteJSON(nil, filepath.Join(t.TempDir(), "x.json"))
	testutil.AssertTrue(t, errors.Is(err, domain.ErrNilRecord), "nil record rejected")
}

func TestJSONPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"reports/example_com_1.pdf", "reports/example_com_1.json"},
		{"Report.PDF", "Report.json"},
		{"report", "report.json"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			testutil.AssertEqual(t, JSONPath(tt.input), tt.expected, "json path")
		})
	}
}
