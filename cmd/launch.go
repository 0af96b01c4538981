package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/jobgate/internal/domain"
)

func newLaunchCmd(app *app) *cobra.Command {
	var target, port, duration, method string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a job if the account's plan admits it",
		Long:  "launch checks the request against the effective plan (running jobs, max duration, allowed methods) and only then forwards it to the job service. Use --dry-run to check without launching.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := domain.ParseLaunchRequest(target, port, duration, method)

			session, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				decision, err := session.Admission.Check(cmd.Context(), req)
				if err != nil {
					return userError(err)
				}
				if err := decision.Err(); err != nil {
					return userError(err)
				}
				_, err = fmt.Fprintf(out, "admitted by %s plan (%d/%d running)\n",
					strings.ToUpper(string(decision.Plan.ID)), session.Snapshots.CountActive(), decision.Plan.MaxConcurrent)
				return err
			}

			job, err := session.Admission.Submit(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}

			_, err = fmt.Fprintf(out, "launched job #%s (%s %s:%d for %ds)\n",
				job.ID, strings.ToUpper(job.Method), job.Target, job.Port, job.DurationSeconds)
			return err
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target host or address")
	cmd.Flags().StringVar(&port, "port", "", "Target port (1-65535)")
	cmd.Flags().StringVar(&duration, "duration", "", "Duration in seconds")
	cmd.Flags().StringVar(&method, "method", "", "Method name (case-insensitive)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check admission without launching")

	return cmd
}
