package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"refsift/internal/store"
	"refsift/internal/tabular"
)

var (
	storeDB         string
	storeQueryCSV   bool
	storeQueryJSONL bool
)

func init() {
	storeCmd.PersistentFlags().StringVar(&storeDB, "db", "refs.db", "SQLite cache file")
	storeQueryCmd.Flags().BoolVar(&storeQueryCSV, "csv", false, "Output CSV")
	storeQueryCmd.Flags().BoolVar(&storeQueryJSONL, "jsonl", false, "Output JSONL")
	storeCmd.AddCommand(storeSyncCmd)
	storeCmd.AddCommand(storeQueryCmd)
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Maintain a SQLite index over a merged CSV",
}

var storeSyncCmd = &cobra.Command{
	Use:   "sync <merged.csv>",
	Short: "Load a merged CSV into the SQLite cache",
	Long: `Replace the cache contents with the rows of a merged CSV.

The CSV remains the source of truth; the cache is disposable and is
rebuilt wholesale, inside one transaction, on every sync.`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreSync,
}

var storeQueryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run SQL against the cache",
	Long: `Execute a SQL query against the cache.

The refs table has columns title, authors, year, doi, url, querysets.
A refs_fts FTS5 table indexes title, authors, and doi.

Examples:
  refsift store query "SELECT title, doi FROM refs WHERE querysets LIKE '%B%'"
  refsift store query "SELECT doi FROM refs_fts WHERE refs_fts MATCH 'deep learning'" --csv`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreQuery,
}

// SyncResponse reports a completed sync.
type SyncResponse struct {
	Records int    `json:"records"`
	DB      string `json:"db"`
}

func runStoreSync(cmd *cobra.Command, args []string) error {
	table, err := tabular.ReadCSV(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	db, err := store.Open(storeDB)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	n, err := db.Sync(table)
	if err != nil {
		exitWithError(ExitError, "syncing: %v", err)
	}

	if humanOutput {
		fmt.Printf("Synced %d records -> %s\n", n, storeDB)
	} else {
		outputJSON(SyncResponse{Records: n, DB: storeDB})
	}
	return nil
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	db, err := store.Open(storeDB)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	cols, rows, err := db.Query(args[0])
	if err != nil {
		exitWithError(ExitError, "SQL error: %v", err)
	}

	switch {
	case storeQueryCSV:
		w := csv.NewWriter(os.Stdout)
		w.Write(cols)
		for _, row := range rows {
			w.Write(row)
		}
		w.Flush()
		return w.Error()
	case storeQueryJSONL:
		for _, row := range rows {
			data, _ := json.Marshal(rowMap(cols, row))
			fmt.Println(string(data))
		}
	default:
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, rowMap(cols, row))
		}
		outputJSON(out)
	}
	return nil
}

func rowMap(cols, row []string) map[string]string {
	m := make(map[string]string, len(cols))
	for i, col := range cols {
		m[col] = row[i]
	}
	return m
}
