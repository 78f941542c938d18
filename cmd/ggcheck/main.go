// Command ggcheck runs the GGOutlier QA check from the command line and
// writes the host-facing result record as JSON.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	var (
		debug   bool
		logFile string
	)

	root := &cobra.Command{
		Use:           "ggcheck",
		Short:         "Run the GGOutlier outlier-detection QA check",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(debug, logFile)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(newRunCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newChecksCmd())
	return root
}

// setupLogging configures the process logger used by the check.
func setupLogging(debug bool, logFile string) error {
	logger := logrus.StandardLogger()
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return err
		}
		logger.SetOutput(f)
	}
	return nil
}
