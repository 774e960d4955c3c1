package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dagsched/metrics"
	"dagsched/report"
)

var compareOpts = pipelineOpts{}
var compareSummaryFile string

var algorithms = []string{"heft", "shc", "rr", "fcfs"}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run all four algorithms over the same dataset and compare them",
	Long: `The compare command schedules and dispatches the same dataset with
heft, shc, rr and fcfs in turn, writes one results CSV per algorithm
plus a comparison summary, and prints the summary table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync()

		nodes, err := loadRoster(compareOpts, logger)
		if err != nil {
			return err
		}

		g, err := buildGraph(compareOpts, nodes, logger)
		if err != nil {
			return err
		}

		var summaries []metrics.Summary
		for _, algo := range algorithms {

			logger.Infow("running algorithm", "algorithm", algo)

			_, rep, err := runAlgorithm(cmd.Context(), algo, g, nodes, compareOpts, logger)
			if err != nil {
				return fmt.Errorf("running %s: %w", algo, err)
			}

			sum := metrics.Summarize(algo, rep, nodes)
			summaries = append(summaries, sum)
			printSummary(sum)

			saveRun(algo, "", rep, logger)
			recordRun(algo, g, rep, sum, compareOpts, logger)

			// Small gap between runs so the agents fully drain.
			time.Sleep(time.Second)
		}

		if err := report.SaveSummaries(compareSummaryFile, summaries); err != nil {
			return err
		}
		logger.Infow("comparison summary written", "file", compareSummaryFile)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareOpts.datasetFile, "dataset", "d", "dataset.txt", "dataset file, one workload value per line")
	compareCmd.Flags().StringVarP(&compareOpts.rosterFile, "nodes", "n", "", "YAML roster file (defaults to VM*_IP environment variables)")
	compareCmd.Flags().StringVar(&compareOpts.shape, "shape", "chain", "dependency shape (chain, parallel)")
	compareCmd.Flags().IntVar(&compareOpts.width, "width", 3, "chain width for the parallel shape")
	compareCmd.Flags().Int64Var(&compareOpts.seed, "seed", 0, "random seed for shc (0 seeds from the clock)")
	compareCmd.Flags().IntVar(&compareOpts.iterations, "iterations", 1000, "iteration budget for shc")
	compareCmd.Flags().DurationVar(&compareOpts.timeout, "timeout", defaultTaskTimeout, "per-task remote call timeout")
	compareCmd.Flags().BoolVar(&compareOpts.post, "single-machine", false, "use POST /execute instead of GET /task/{value}")
	compareCmd.Flags().StringVar(&compareOpts.dbType, "db", "memory", "run history store (memory, persistent)")
	compareCmd.Flags().StringVar(&compareOpts.dbFile, "db-file", "runs.db", "bbolt file for the persistent store")
	compareCmd.Flags().StringVar(&compareSummaryFile, "summary", "comparison_summary.csv", "comparison summary CSV file")
}
