package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/consent-session/internal"
)

// MarkdownExporter exports records as a Markdown table
type MarkdownExporter struct{}

// Export exports records to Markdown format
func (e *MarkdownExporter) Export(records []*internal.ConsentRecord, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Consents\n\n")
	_, _ = fmt.Fprintf(w, "**Total:** %d\n\n", len(records))

	if len(records) == 0 {
		_, _ = fmt.Fprintf(w, "_No consents recorded._\n")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| ID | Status | Checks | Created | Updated | Approval URL |\n")
	_, _ = fmt.Fprintf(w, "|---|---|---|---|---|---|\n")
	for _, rec := range records {
		_, err := fmt.Fprintf(w, "| %s | %s | %d | %s | %s | %s |\n",
			escapeCell(rec.ID),
			escapeCell(rec.Status),
			rec.Checks,
			rec.CreatedAt.Format(time.RFC3339),
			rec.UpdatedAt.Format(time.RFC3339),
			escapeCell(rec.ApprovalURL),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// escapeCell keeps values from breaking the table layout
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(text, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
