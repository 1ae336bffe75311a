package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/schedule"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

func newWeekCmd(flags *rootFlags) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the bookable week and its occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			var clock schedule.Clock = schedule.SystemClock{}
			if at != "" {
				t, err := time.ParseInLocation(schedule.DateLayout, at, time.Local)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				clock = schedule.FixedClock(t)
			}
			a, err := newApp(cmd.Context(), cfg, clock, service.Options{Logger: logger.NopLogger{}})
			if err != nil {
				return err
			}
			defer a.Close()
			return printWeek(cmd.OutOrStdout(), a.bookings.Week())
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "show the week containing this date (YYYY-MM-DD)")
	return cmd
}

// printWeek renders one row per hour and one column per weekday.  Free
// slots print as "-", administrative blocks as "BLOCKED".
func printWeek(out io.Writer, view service.WeekView) error {
	cells := make(map[string]string, len(view.Reservations))
	for _, r := range view.Reservations {
		label := r.RequesterName
		if r.IsAdministrativeBlock {
			label = "BLOCKED"
		}
		cells[r.Date+" "+r.Time] = label
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"TIME"}
	for _, d := range view.Days {
		h := d.Name + " " + d.Date
		if d.IsToday {
			h += " *"
		}
		header = append(header, h)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, t := range view.Times {
		row := []string{t}
		for _, d := range view.Days {
			cell, ok := cells[d.Date+" "+t]
			if !ok {
				cell = "-"
			}
			row = append(row, cell)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
