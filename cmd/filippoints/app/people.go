package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/filippoints/filippoints-cli/internal/screen"
	"github.com/filippoints/filippoints-cli/internal/tui"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Show the choose-person screen",
	Long: `Show the cached list of people immediately, then refresh it from the backend.

With --admin the screen is used to pick the person who receives the points
given by --points; the chosen person is printed on exit.

Keys: up/down move, enter select, r refresh, f fetch again, w open the web app, q quit.`,
	RunE: runPeople,
}

func init() {
	peopleCmd.Flags().Bool("admin", false, "Select a person to assign points to")
	peopleCmd.Flags().Int("points", screen.NoPoints, "Points to assign in admin mode")
}

// modeFromFlags maps the launch flags onto a screen mode. Admin without
// --points yields NoPoints, which the screen rejects.
func modeFromFlags(cmd *cobra.Command) (screen.Mode, error) {
	admin, err := cmd.Flags().GetBool("admin")
	if err != nil {
		return screen.Mode{}, err
	}
	points, err := cmd.Flags().GetInt("points")
	if err != nil {
		return screen.Mode{}, err
	}
	if !admin {
		return screen.RegularMode(), nil
	}
	return screen.AdminMode(points), nil
}

func runPeople(cmd *cobra.Command, _ []string) error {
	mode, err := modeFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer c.flushMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := tui.Run(ctx, mode, c.manager,
		screen.WithWebAppURL(cfg.WebAppURL),
		screen.WithLinkOpener(screen.BrowserOpener{}),
	)
	if err != nil {
		if errors.Is(err, screen.ErrPointsNotSpecified) {
			return fmt.Errorf("points not specified: pass --points with --admin")
		}
		if errors.Is(err, tea.ErrProgramKilled) && errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return err
	}

	if sel, ok := model.Selection(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Assign %d points to %s (id %d)\n", sel.Points, sel.Name, sel.PersonID)
	}
	return nil
}
