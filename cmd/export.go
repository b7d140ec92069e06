package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/consent-session/internal"
	"github.com/iksnae/consent-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	exportID  string
	exportMax int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journal records to a file",
	Long: `Export the consent journal to one of several formats (jsonl, md, yaml, json).

Records are written to stdout unless --output is given, in which case they go to
<output>/consents.<ext>. Use --id to export a single consent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		journal, err := openJournal()
		if err != nil {
			return err
		}
		defer journal.Close()

		ctx := cmd.Context()
		var records []*internal.ConsentRecord
		if exportID != "" {
			rec, err := journal.Get(ctx, exportID)
			if errors.Is(err, internal.ErrRecordNotFound) {
				return fmt.Errorf("consent not found: %s (use 'consent-session history' to see recorded consents)", exportID)
			}
			if err != nil {
				return err
			}
			records = append(records, rec)
		} else {
			records, err = journal.List(ctx, exportMax)
			if err != nil {
				return fmt.Errorf("failed to load consents: %w", err)
			}
		}

		if outputDir == "" {
			if err := exporter.Export(records, cmd.OutOrStdout()); err != nil {
				return &internal.ExportError{Format: format, Path: "stdout", Err: err}
			}
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: fmt.Errorf("failed to create output directory: %w", err)}
		}
		path := filepath.Join(outputDir, "consents."+exporter.Extension())

		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d consent(s) to %s", len(records), path), func() error {
			file, err := os.Create(path)
			if err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := exporter.Export(records, file); err != nil {
				_ = file.Close()
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := file.Close(); err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			internal.LogInfo("Wrote %d consent(s) to %s", len(records), path)
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d consent(s) exported to %s", len(records), path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: stdout)")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Export a single consent by id")
	exportCmd.Flags().IntVarP(&exportMax, "limit", "n", 0, "Maximum number of consents to export (0 for all)")
}
