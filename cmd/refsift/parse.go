package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"refsift/internal/extract"
	"refsift/internal/tabular"
)

var (
	parseOut    string
	parseSource string
)

func init() {
	parseCmd.Flags().StringVar(&parseOut, "out", "", "Output CSV file or directory")
	parseCmd.Flags().StringVar(&parseSource, "source", "", "Source label for extracted records (default from config)")
	parseCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Extract records from text or PDF literature-search exports",
	Long: `Extract bibliographic records from loosely formatted exports.

Every line containing a DOI anchors one record; title, year, and URL are
recovered from the surrounding lines. Records are deduplicated by
normalized DOI within each input.

Usage:
  refsift parse export.txt --out export_parsed.csv
  refsift parse a.txt b.pdf --out parsed/            # one CSV per input
  refsift parse a.txt b.txt --out all.csv            # concatenated, with source file column`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

// extractHeader is the parse output column order.
var extractHeader = []string{"source", "title", "authors", "year", "doi", "url"}

// ParseResult reports one written output file.
type ParseResult struct {
	Input   string `json:"input,omitempty"`
	Records int    `json:"records"`
	Output  string `json:"output"`
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	source := parseSource
	if source == "" {
		source = cfg.Source
	}

	outExt := strings.ToLower(filepath.Ext(parseOut))
	fileOut := outExt == ".csv" || outExt == ".tsv"

	if !fileOut {
		runParsePerInput(args, source)
		return nil
	}

	// Single CSV: one input writes plain rows, several inputs get a
	// trailing column naming the originating file.
	withSrcFile := len(args) > 1
	header := extractHeader
	if withSrcFile {
		header = append(append([]string{}, extractHeader...), "__src_file__")
	}

	var rows [][]string
	total := 0
	for _, input := range args {
		records, err := extract.File(input, source)
		if err != nil {
			exitWithError(ExitDataError, "parsing %s: %v", input, err)
		}
		srcFile := ""
		if withSrcFile {
			srcFile = filepath.Base(input)
		}
		rows = append(rows, extractRows(records, srcFile)...)
		total += len(records)
	}

	if err := tabular.WriteCSV(parseOut, header, rows); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Saved %d rows -> %s\n", total, parseOut)
	} else {
		outputJSON(ParseResult{Records: total, Output: parseOut})
	}
	return nil
}

// runParsePerInput writes one <stem>_parsed.csv per input under the
// output directory.
func runParsePerInput(inputs []string, source string) {
	if err := os.MkdirAll(parseOut, 0755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}

	var results []ParseResult
	for _, input := range inputs {
		records, err := extract.File(input, source)
		if err != nil {
			exitWithError(ExitDataError, "parsing %s: %v", input, err)
		}

		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		dst := filepath.Join(parseOut, stem+"_parsed.csv")
		if err := tabular.WriteCSV(dst, extractHeader, extractRows(records, "")); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			fmt.Printf("%s: %d rows -> %s\n", filepath.Base(input), len(records), dst)
		}
		results = append(results, ParseResult{Input: input, Records: len(records), Output: dst})
	}

	if !humanOutput {
		outputJSON(results)
	}
}

// extractRows renders records as CSV rows. A non-empty srcFile appends
// the originating file name to every row.
func extractRows(records []extract.Record, srcFile string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{r.Source, r.Title, r.Authors, r.Year, r.DOI, r.URL}
		if srcFile != "" {
			row = append(row, srcFile)
		}
		rows = append(rows, row)
	}
	return rows
}
