package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/consent-session/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		records []*internal.ConsentRecord
	}{
		{
			name:    "basic records",
			records: internal.CreateTestRecords(2),
		},
		{
			name:    "no records",
			records: []*internal.ConsentRecord{},
		},
		{
			name:    "checked record",
			records: []*internal.ConsentRecord{internal.CreateTestRecordWithStatus("abc123", "ACTIVE", 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &YAMLExporter{}

			if err := exporter.Export(tt.records, &buf); err != nil {
				t.Fatalf("YAMLExporter.Export() error = %v", err)
			}

			output := buf.String()
			var doc struct {
				Consents []internal.ConsentRecord `yaml:"consents"`
			}
			if err := yaml.Unmarshal([]byte(output), &doc); err != nil {
				t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, output)
			}
			if len(doc.Consents) != len(tt.records) {
				t.Fatalf("decoded %d consents, want %d", len(doc.Consents), len(tt.records))
			}
			for _, rec := range tt.records {
				if !strings.Contains(output, rec.ID) {
					t.Errorf("Output should contain consent ID %q", rec.ID)
				}
			}
		})
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if got := exporter.Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
