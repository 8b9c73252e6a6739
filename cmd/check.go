package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chemsmart/fmdqa/internal/qa"
	"github.com/chemsmart/fmdqa/internal/schema"
	"github.com/chemsmart/fmdqa/internal/table"
	"github.com/spf13/cobra"
)

var (
	checkOutput string
	checkQuiet  bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Run the QA check battery over a spreadsheet",
	Long: `Reads an .xlsx or .csv compliance sheet, validates every component
record, and writes the annotated result next to the input (or to --output).
The output format follows the output extension: .xlsx by default, .csv when
asked for.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		tab, err := table.ReadFile(in)
		if err != nil {
			return err
		}

		out := checkOutput
		if out == "" {
			base := strings.TrimSuffix(in, filepath.Ext(in))
			out = base + cfg.OutputSuffix + ".xlsx"
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()

		var sink interface {
			qa.Sink
			io.Closer
		}
		if strings.HasSuffix(strings.ToLower(out), ".csv") {
			sink = table.NewCSVWriter(f)
		} else {
			xw := table.NewXLSXWriter(f)
			xw.Highlight = []string{schema.Comment}
			sink = xw
		}

		opts := qa.Options{GroupsPerChunk: cfg.ChunkSize}
		if !checkQuiet {
			opts.Progress = func(done, total int) {
				fmt.Fprintf(os.Stderr, "\rProcessing batch %d/%d", done, total)
				if done == total {
					fmt.Fprintln(os.Stderr)
				}
			}
		}
		sum, err := qa.Run(tab, sink, opts)
		if err != nil {
			// Don't leave a half-written artifact behind
			f.Close()
			os.Remove(out)
			return err
		}
		if err := sink.Close(); err != nil {
			return fmt.Errorf("finalize output: %w", err)
		}

		mins := int(sum.Elapsed.Minutes())
		secs := int(sum.Elapsed.Seconds()) % 60
		fmt.Printf("✓ Wrote %s (%d rows, %d groups, %d batches). Elapsed: %02d:%02d\n",
			out, sum.Rows, sum.Groups, sum.Chunks, mins, secs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "output path (default <input>_checked.xlsx)")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "suppress per-batch progress")
}
