package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/consent-session/internal"
)

// JSONExporter exports records as one pretty-printed JSON array
type JSONExporter struct{}

// Export exports records to JSON format
func (e *JSONExporter) Export(records []*internal.ConsentRecord, w io.Writer) error {
	if records == nil {
		records = []*internal.ConsentRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
