// Package main implements the fhirview CLI: a command-line front end
// to the SQL-on-FHIR ViewDefinition engine for applying a view to
// resource files from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gofhir/sqlonfhir"
	"github.com/gofhir/sqlonfhir/logging"
	"github.com/gofhir/sqlonfhir/rowfmt"
	"github.com/gofhir/sqlonfhir/rowgen"
	"github.com/gofhir/sqlonfhir/viewdef"
	"github.com/gofhir/sqlonfhir/worker"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fhirview",
		Short: "Apply SQL-on-FHIR ViewDefinitions to FHIR resources",
	}
	cmd.AddCommand(applyCmd())
	cmd.AddCommand(schemaCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

func applyCmd() *cobra.Command {
	var viewPath string
	var strictNames bool
	var cacheSize int
	var ndjson bool

	cmd := &cobra.Command{
		Use:   "apply [resource-file...]",
		Short: "Project one or more FHIR resources through a ViewDefinition",
		Long: `apply reads a ViewDefinition from --view and projects every named
resource file (or stdin, given "-") through it, writing the resulting
rows as a JSON array, or as newline-delimited JSON with --ndjson.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viewPath == "" {
				return fmt.Errorf("--view is required")
			}
			viewJSON, err := os.ReadFile(viewPath)
			if err != nil {
				return fmt.Errorf("read view definition: %w", err)
			}

			engine := sqlonfhir.New(
				sqlonfhir.WithStrictNames(strictNames),
				sqlonfhir.WithExpressionCache(cacheSize),
			)
			view, err := engine.ParseView(viewJSON)
			if err != nil {
				return fmt.Errorf("parse view definition: %w", err)
			}

			files := args
			if len(files) == 0 {
				files = []string{"-"}
			}

			resources := make([][]byte, len(files))
			for i, f := range files {
				data, err := readInput(f)
				if err != nil {
					return fmt.Errorf("read %s: %w", f, err)
				}
				resources[i] = data
			}

			batch := worker.ProjectBatchSimple(context.Background(), applyProjector(engine, view), resources)
			var rowMaps []map[string]any
			for i, res := range batch.Results {
				if res.Error != nil {
					logging.Error(res.Error, "projection failed for %s", files[i])
					return fmt.Errorf("apply view to %s: %w", files[i], res.Error)
				}
				rowMaps = append(rowMaps, rowfmt.ToMaps(res.Rows)...)
			}

			return writeRows(cmd.OutOrStdout(), rowMaps, ndjson)
		},
	}

	cmd.Flags().StringVar(&viewPath, "view", "", "path to the ViewDefinition JSON file")
	cmd.Flags().BoolVar(&strictNames, "strict-names", true, "reject ViewDefinitions with malformed column/constant names")
	cmd.Flags().IntVar(&cacheSize, "cache-size", 2000, "compiled-expression cache size")
	cmd.Flags().BoolVar(&ndjson, "ndjson", false, "emit newline-delimited JSON instead of a JSON array")
	return cmd
}

func schemaCmd() *cobra.Command {
	var viewPath string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print a ViewDefinition's computed output schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if viewPath == "" {
				return fmt.Errorf("--view is required")
			}
			viewJSON, err := os.ReadFile(viewPath)
			if err != nil {
				return fmt.Errorf("read view definition: %w", err)
			}
			engine := sqlonfhir.New()
			view, err := engine.ParseView(viewJSON)
			if err != nil {
				return fmt.Errorf("parse view definition: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view.Schema())
		},
	}
	cmd.Flags().StringVar(&viewPath, "view", "", "path to the ViewDefinition JSON file")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fhirview version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fhirview 0.1.0")
		},
	}
}

func applyProjector(engine *sqlonfhir.Engine, view *viewdef.ViewDefinition) worker.BatchProjectFunc {
	return func(ctx context.Context, resource []byte) ([]*rowgen.Row, error) {
		return engine.Apply(view, resource)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeRows(w io.Writer, rows []map[string]any, ndjson bool) error {
	if ndjson {
		enc := json.NewEncoder(w)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
