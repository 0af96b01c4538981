package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	statusadapter "github.com/bnema/jobgate/internal/adapters/render/status"
	"github.com/bnema/jobgate/internal/domain"
)

func newPlansCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Show or initialize the plan tier table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlansList(cmd, app)
		},
	}

	cmd.AddCommand(newPlansListCmd(app), newPlansInitCmd(app))

	return cmd
}

func newPlansListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plan tiers and their limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlansList(cmd, app)
		},
	}
}

func runPlansList(cmd *cobra.Command, app *app) error {
	catalog, err := app.plans.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load plan catalog: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), statusadapter.RenderPlans(catalog.Tiers(), currentPlan(cmd, app)))
	return err
}

// currentPlan returns the account's effective tier, or "" when the service is not configured
// or unreachable.
func currentPlan(cmd *cobra.Command, app *app) domain.PlanID {
	if app.cfg.RequireService() != nil {
		return ""
	}

	session, err := app.newSession(cmd.Context())
	if err != nil {
		log.WithError(err).Debug("skip current plan lookup")
		return ""
	}

	tier, err := session.Plans.Effective(cmd.Context(), 0)
	if err != nil {
		log.WithError(err).Warn("could not determine current plan")
		return ""
	}

	return tier.ID
}

func newPlansInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default plan table to the plans file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.plans.Exists() && !force {
				return fmt.Errorf("plans file already exists at %s (use --force to overwrite)", app.plans.Path())
			}

			if err := app.plans.Save(cmd.Context(), domain.DefaultPlanCatalog()); err != nil {
				return fmt.Errorf("write plans file: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote default plans to %s\n", app.plans.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing plans file")

	return cmd
}
