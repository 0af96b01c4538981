package cmd

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bnema/jobgate/internal/application"
	"github.com/bnema/jobgate/internal/domain"
)

const noJobsToStopMessage = "No running jobs to stop"

func newStopCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <job-id>",
		Short: "Stop one running job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}

			jobID := domain.JobID(args[0])
			if err := session.Admission.Stop(cmd.Context(), jobID); err != nil {
				if errors.Is(err, domain.ErrUnknownJob) {
					return fmt.Errorf("job #%s not found for account %s", jobID, app.cfg.AccountID)
				}
				return userError(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stopped job #%s\n", jobID)
			return err
		},
	}
}

func newStopAllCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop-all",
		Short: "Stop every running job of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}

			result, err := session.Canceller.StopAll(cmd.Context())
			if err != nil {
				if result.Empty() {
					return userError(err)
				}
				log.WithError(err).Warn("job list may be out of date")
			}

			return writeBulkResult(cmd, result)
		},
	}
}

func writeBulkResult(cmd *cobra.Command, result application.BulkResult) error {
	out := cmd.OutOrStdout()
	if result.Empty() {
		_, err := fmt.Fprintln(out, noJobsToStopMessage)
		return err
	}

	if _, err := fmt.Fprintf(out, "stopped %d of %d jobs\n", result.Succeeded, result.Succeeded+result.Failed); err != nil {
		return err
	}
	for _, failure := range result.Failures {
		if _, err := fmt.Fprintf(out, "  #%s: %v\n", failure.JobID, failure.Err); err != nil {
			return err
		}
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d job(s) could not be stopped", result.Failed)
	}
	return nil
}
