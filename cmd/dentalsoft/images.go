package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/imaging"
	"github.com/diewo77/dentalsoft/internal/store"
)

func importImageCommand(e *env) *cobra.Command {
	var category, description string
	cmd := &cobra.Command{
		Use:   "import-image <patient-id> <file>...",
		Short: "Attach image files from disk to a patient",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid patient id %q", args[0])
			}
			conn, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close(conn)
			lib := imaging.New(store.New(conn, e.log), e.layout.Images, e.layout.Exports, e.log)
			req := imaging.ImportRequest{PatientID: uint(id), Category: category, Description: description}
			return importImages(cmd.Context(), lib, req, args[1:], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&category, "category", "Autre", "image category")
	cmd.Flags().StringVar(&description, "description", "", "description stored with every file")
	return cmd
}

// importImages imports each file in order and stops at the first failure.
func importImages(ctx context.Context, lib *imaging.Library, req imaging.ImportRequest, files []string, out io.Writer) error {
	for _, f := range files {
		img, err := lib.ImportFile(ctx, req, f)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		format := img.Format
		if format == "" {
			format = "-"
		}
		fmt.Fprintf(out, "%d\t%s\t%s\n", img.ID, img.FileName, format)
	}
	return nil
}
