package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lg/nutri-track-api/internal/config"
	"lg/nutri-track-api/internal/model"
	"lg/nutri-track-api/internal/store"
	"lg/nutri-track-api/internal/weekly"
)

var (
	weekUserID int
	weekDate   string
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print a user's Sunday-to-Saturday weekly summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if weekUserID <= 0 {
			return fmt.Errorf("--user must be > 0")
		}
		var ref model.DateOnly
		if weekDate != "" {
			d, err := model.ParseDate(weekDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", weekDate)
			}
			ref = d
		}

		return withStore(cmd.Context(), func(st store.Store, cfg config.Config) error {
			s, err := weekly.NewService(st, cfg.Location).WeeklySummary(cmd.Context(), weekUserID, ref)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Week %s to %s\n", s.WeekStart, s.WeekEnd)
			for _, l := range s.Logs {
				fmt.Fprintf(out, "  %s  %8.0f kcal  %4d min  %s\n", l.LogDate, l.CaloriesConsumed, l.ExerciseDuration, l.Status)
			}
			fmt.Fprintf(out, "Days logged:    %d\n", s.TotalDaysLogged)
			fmt.Fprintf(out, "Days completed: %d\n", s.CompletedDays)
			fmt.Fprintf(out, "Days missed:    %d\n", s.MissedDays)
			fmt.Fprintf(out, "Compliance:     %.1f%%\n", s.CompliancePercentage)
			fmt.Fprintf(out, "Avg calories:   %.0f\n", s.AvgCalories)
			fmt.Fprintf(out, "Exercise:       %d min\n", s.TotalExercise)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
	weekCmd.Flags().IntVar(&weekUserID, "user", 0, "User ID")
	weekCmd.Flags().StringVar(&weekDate, "date", "", "Any date in the week, YYYY-MM-DD (default today)")
}
