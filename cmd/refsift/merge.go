package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"refsift/internal/merge"
	"refsift/internal/tabular"
)

var (
	mergeA     string
	mergeB     string
	mergeC     string
	mergeOut   string
	mergeStats bool
)

func init() {
	mergeCmd.Flags().StringVar(&mergeA, "a", "", "CSV for the first query set")
	mergeCmd.Flags().StringVar(&mergeB, "b", "", "CSV for the second query set")
	mergeCmd.Flags().StringVar(&mergeC, "c", "", "CSV for the third query set")
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "Unified output CSV")
	mergeCmd.Flags().BoolVar(&mergeStats, "stats", false, "Include the set-membership breakdown")
	mergeCmd.MarkFlagRequired("a")
	mergeCmd.MarkFlagRequired("b")
	mergeCmd.MarkFlagRequired("c")
	mergeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge --a A.csv --b B.csv --c C.csv --out ABC.csv",
	Short: "Cross-deduplicate three per-source record sets",
	Long: `Union three already-deduplicated per-source CSVs into one dataset.

Each input's columns are mapped onto the common shape by an ordered
alias lookup, records are keyed by normalized DOI (normalized title when
no DOI parses), and one representative survives per key: DOI-bearing
records win over title-only matches, longer titles win among equals. The
QuerySets column records which sets each work appeared in, e.g. "A|B".`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

// mergedHeader is the unified output column order.
var mergedHeader = []string{"Title", "Authors", "Year", "DOI", "URL", "QuerySets"}

// MergeResponse summarizes a merge run.
type MergeResponse struct {
	Output    string           `json:"output"`
	Total     int              `json:"total"`
	Unique    int              `json:"unique"`
	Removed   int              `json:"removed"`
	Partition *merge.Partition `json:"partition,omitempty"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	aliases := cfg.MergeAliases()

	inputs := []string{mergeA, mergeB, mergeC}
	sets := make([][]merge.Record, len(inputs))
	for i, path := range inputs {
		table, err := tabular.ReadCSV(path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		sets[i] = merge.Standardize(table, cfg.Labels[i], aliases)
	}

	res := merge.Merge(sets[0], sets[1], sets[2])

	rows := make([][]string, 0, len(res.Records))
	for _, m := range res.Records {
		rows = append(rows, []string{m.Title, m.Authors, m.Year, m.DOI, m.URL, m.QuerySets})
	}
	if err := tabular.WriteCSV(mergeOut, mergedHeader, rows); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Input total: %d | Unique after cross-dedup: %d | Removed: %d\n",
			res.Stats.Total, res.Stats.Unique, res.Stats.Removed)
		if mergeStats {
			p := res.Stats.Partition
			la, lb, lc := cfg.Labels[0], cfg.Labels[1], cfg.Labels[2]
			fmt.Printf("  %s only:     %d\n", la, p.AOnly)
			fmt.Printf("  %s only:     %d\n", lb, p.BOnly)
			fmt.Printf("  %s only:     %d\n", lc, p.COnly)
			fmt.Printf("  %s+%s:        %d\n", la, lb, p.AB)
			fmt.Printf("  %s+%s:        %d\n", la, lc, p.AC)
			fmt.Printf("  %s+%s:        %d\n", lb, lc, p.BC)
			fmt.Printf("  %s+%s+%s:      %d\n", la, lb, lc, p.ABC)
		}
		return nil
	}

	resp := MergeResponse{
		Output:  mergeOut,
		Total:   res.Stats.Total,
		Unique:  res.Stats.Unique,
		Removed: res.Stats.Removed,
	}
	if mergeStats {
		p := res.Stats.Partition
		resp.Partition = &p
	}
	outputJSON(resp)
	return nil
}
