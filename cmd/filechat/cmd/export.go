package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvail/filechat-go/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the document cache",
	Long: `Export the cached documents (filename, fingerprint, summary, timestamps)
in JSON, YAML or Markdown.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Output format (json, yaml, md)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	exporter, err := export.NewExporter(exportFormat)
	if err != nil {
		return err
	}

	store, err := newStore()
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return exporter.ExportCache(store.Records(), out)
}
