package app

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/filippoints/filippoints-cli/internal/person"
	"github.com/filippoints/filippoints-cli/internal/screen"
	"github.com/filippoints/filippoints-cli/internal/status"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the cached people list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := buildComponents(cfg)
		if err != nil {
			return err
		}
		return renderPeople(cmd.OutOrStdout(), c.manager.LoadCachedList(cmd.Context()))
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the outcome of the last backend refresh",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := buildComponents(cfg)
		if err != nil {
			return err
		}
		st, err := c.manager.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load refresh status: %w", err)
		}
		return renderStatus(cmd.OutOrStdout(), st)
	},
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete the cached people list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := buildComponents(cfg)
		if err != nil {
			return err
		}
		if err := c.store.Remove(cmd.Context(), cfg.Cache.Key); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Open the FilipPoints web app in the default browser",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opening %s\n", cfg.WebAppURL)
		return screen.BrowserOpener{}.OpenURL(cfg.WebAppURL)
	},
}

func renderPeople(w io.Writer, people []person.Person) error {
	if len(people) == 0 {
		_, err := fmt.Fprintln(w, "No cached people. Run 'filippoints refresh' first.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Points")
	for _, p := range people {
		if err := table.Append(strconv.Itoa(p.PK), p.DisplayName(), p.PointsLabel()); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderStatus(w io.Writer, st *status.SyncStatus) error {
	phase := string(st.Phase)
	if phase == "" {
		phase = "Never refreshed"
	}
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	rows := [][]string{
		{"Phase", phase},
		{"Message", st.Message},
		{"Reason", st.Reason},
		{"Last attempt", formatTime(st.LastAttempt)},
		{"Attempts since success", strconv.Itoa(st.AttemptCount)},
		{"Last success", formatTime(st.LastSyncTime)},
		{"People", strconv.Itoa(st.PersonCount)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format(time.RFC3339)
}
