package export

import (
	"io"

	"github.com/iksnae/consent-session/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports records in YAML format
type YAMLExporter struct{}

type yamlDocument struct {
	Consents []*internal.ConsentRecord `yaml:"consents"`
}

// Export exports records to YAML format
func (e *YAMLExporter) Export(records []*internal.ConsentRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	if records == nil {
		records = []*internal.ConsentRecord{}
	}
	return enc.Encode(yamlDocument{Consents: records})
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
