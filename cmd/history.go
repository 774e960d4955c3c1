package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"dagsched/store"
)

var historyDbFile string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs from the persistent store",
	RunE: func(cmd *cobra.Command, args []string) error {

		runs, err := store.NewRunStore("persistent", historyDbFile)
		if err != nil {
			return err
		}
		if c, ok := runs.(interface{ Close() error }); ok {
			defer c.Close()
		}

		records, err := runs.List()
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		sort.Slice(records, func(i, j int) bool {
			return records[i].StartedAt.Before(records[j].StartedAt)
		})

		fmt.Printf("%-36s  %-6s  %-20s  %8s  %5s  %6s\n", "id", "algo", "started", "makespan", "ok", "failed")
		for _, r := range records {
			fmt.Printf("%-36s  %-6s  %-20s  %8.2f  %5d  %6d\n",
				r.ID,
				r.Algorithm,
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Summary.Makespan,
				r.Summary.Succeeded,
				r.Summary.Failed,
			)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDbFile, "db-file", "runs.db", "bbolt file of the persistent store")
}
