package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/app"
)

// exportCmd streams review states and attempt history as NDJSON.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scheduling state and quiz history as an NDJSON backup",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		outputPath, _ := cmd.Flags().GetString("output")
		gzipEnabled, _ := cmd.Flags().GetBool("gzip")

		if outputPath == "" {
			outputPath = defaultExportFilename(gzipEnabled)
		}
		if !gzipEnabled && outputPath != "-" && strings.HasSuffix(strings.ToLower(outputPath), ".gz") {
			gzipEnabled = true
		}

		c, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		var (
			writer   io.Writer = cmd.OutOrStdout()
			closeFns []func() error
		)
		if outputPath != "-" {
			file, createErr := os.Create(filepath.Clean(outputPath))
			if createErr != nil {
				return fmt.Errorf("create backup file: %w", createErr)
			}
			writer = file
			closeFns = append(closeFns, file.Close)
		}
		if gzipEnabled {
			gzw := gzip.NewWriter(writer)
			writer = gzw
			closeFns = append([]func() error{gzw.Close}, closeFns...)
		}
		defer func() {
			for _, closeFn := range closeFns {
				if closeErr := closeFn(); closeErr != nil && err == nil {
					err = closeErr
				}
			}
		}()

		if err := c.Backup.Export(cmd.Context(), writer); err != nil {
			return err
		}
		if outputPath != "-" {
			c.Logger.Infof("backup written to %s", outputPath)
		}
		return nil
	},
}

func defaultExportFilename(gzipEnabled bool) string {
	name := fmt.Sprintf("vocdrill-backup-%s.ndjson", time.Now().Format("20060102-150405"))
	if gzipEnabled {
		name += ".gz"
	}
	return name
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "output file path, - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip the output")
}
