package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sguter90/microclimate/pkg/archive"
	"github.com/sguter90/microclimate/pkg/config"
	"github.com/sguter90/microclimate/pkg/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <kind>",
	Short: "Export a table as CSV",
	Long: `Export the full contents of a table as CSV.

Kinds: ` + kindList(),
	Args: cobra.ExactArgs(1),
	RunE: withDatabase(runExport),
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "output file (defaults to the export's file name, - for stdout)")
	exportCmd.Flags().Bool("archive", false, "also upload the file to EXPORT_ARCHIVE_BUCKET")
	rootCmd.AddCommand(exportCmd)
}

func kindList() string {
	kinds := make([]string, len(export.Kinds))
	for i, k := range export.Kinds {
		kinds[i] = string(k)
	}
	return strings.Join(kinds, ", ")
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := export.ParseKind(args[0])
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = kind.Filename()
	}
	upload, _ := cmd.Flags().GetBool("archive")

	var buf bytes.Buffer
	count, err := export.Write(cmd.Context(), &buf, dbManagerFrom(cmd), kind)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", kind, err)
	}

	if out == "-" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		log.Info().Str("kind", string(kind)).Int("rows", count).Str("file", out).Msg("Export written")
	}

	if !upload {
		return nil
	}

	bucket := config.ExportArchiveBucket()
	if bucket == "" {
		return fmt.Errorf("--archive needs EXPORT_ARCHIVE_BUCKET to be set")
	}
	archiver, err := archive.NewS3Archiver(cmd.Context(), config.AWSRegion(), bucket)
	if err != nil {
		return err
	}
	key, err := archiver.Upload(cmd.Context(), string(kind), kind.Filename(), buf.Bytes())
	if err != nil {
		return err
	}

	log.Info().Str("bucket", bucket).Str("key", key).Msg("Export archived")
	return nil
}
