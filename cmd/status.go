package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	statusadapter "github.com/bnema/jobgate/internal/adapters/render/status"
	"github.com/bnema/jobgate/internal/application"
)

const statusFetchLabel = "Fetching plan and jobs..."

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the effective plan and running jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}

			status, err := loadStatus(cmd, session, asJSON)
			if err != nil {
				return err
			}

			return writeStatusOutput(cmd, app, status, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// loadStatus refreshes the plan and the job list. A partial failure is logged and the status is
// still rendered from whatever loaded; it is an error only when nothing loaded at all.
func loadStatus(cmd *cobra.Command, session *application.Session, quiet bool) (application.Status, error) {
	var status application.Status
	fetch := func(ctx context.Context) error {
		var err error
		status, err = session.Status(ctx)
		return err
	}

	var err error
	if quiet {
		err = fetch(cmd.Context())
	} else {
		err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), statusFetchLabel, fetch)
	}
	if err != nil {
		if !status.PlanLoaded && !status.JobsLoaded {
			return application.Status{}, userError(err)
		}
		log.WithError(err).Warn("status is incomplete")
	}

	return status, nil
}

func writeStatusOutput(cmd *cobra.Command, app *app, status application.Status, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	rendered, err := app.statusRenderer(status, statusadapter.RenderOptions{StaleAfter: app.cfg.StaleAfter})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
