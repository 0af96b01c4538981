package cmd

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "jg",
		Short:         "jobgate (jg): plan-tiered job admission and quota status",
		Long:          "jg checks launch requests against the account's plan limits before they reach the job service, keeps a reconciled view of running jobs, and stops jobs one at a time or all at once.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		level := logLevel
		if level == "" {
			level = app.cfg.LogLevel
		}
		return configureLogging(cmd.ErrOrStderr(), level)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(app),
		newLaunchCmd(app),
		newStopCmd(app),
		newStopAllCmd(app),
		newWatchCmd(app),
		newPlansCmd(app),
		newTokenCmd(app),
	)

	return rootCmd
}

func configureLogging(out io.Writer, level string) error {
	parsed, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	log.SetOutput(out)
	log.SetLevel(parsed)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	return nil
}
