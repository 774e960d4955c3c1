package cmd

import (
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"dagsched/config"
	"dagsched/worker"
)

const defaultTaskTimeout = 2 * time.Minute

var workerdName string
var workerdAddress string
var workerdPort int
var workerdCores int

var workerdCmd = &cobra.Command{
	Use:   "workerd",
	Short: "Serve the per-task compute endpoint on this machine",
	Long: `The workerd command starts the worker agent: an HTTP server exposing
GET /task/{value} and POST /execute backed by a compute pool bounded to
the advertised core count, plus /stats and /healthz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync()

		name := workerdName
		if name == "" {
			if host, err := os.Hostname(); err == nil {
				name = host
			} else {
				name = "worker"
			}
		}

		w, err := worker.New(name, workerdCores, logger)
		if err != nil {
			return err
		}
		defer w.Close()

		api := worker.NewApi(workerdAddress, workerdPort, w, logger)
		return api.Start()
	},
}

func init() {
	rootCmd.AddCommand(workerdCmd)

	workerdCmd.Flags().StringVar(&workerdName, "name", "", "node name advertised in responses (default hostname)")
	workerdCmd.Flags().StringVar(&workerdAddress, "address", "0.0.0.0", "listen address")
	workerdCmd.Flags().IntVarP(&workerdPort, "port", "p", config.DefaultPort, "listen port")
	workerdCmd.Flags().IntVar(&workerdCores, "cores", runtime.NumCPU(), "compute pool size")
}
