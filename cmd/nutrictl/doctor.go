package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lg/nutri-track-api/internal/config"
	"lg/nutri-track-api/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that every daily log's totals match its food entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st store.Store, _ config.Config) error {
			drift, err := st.TotalsDrift(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range drift {
				fmt.Fprintf(out, "  log %d: calories %g (entries %g), protein %g (%g), carbs %g (%g), fats %g (%g)\n",
					d.LogID, d.StoredCalories, d.EntryCalories, d.StoredProtein, d.EntryProtein,
					d.StoredCarbs, d.EntryCarbs, d.StoredFats, d.EntryFats)
			}
			fmt.Fprintf(out, "Logs with drifted totals: %d\n", len(drift))
			if len(drift) > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
