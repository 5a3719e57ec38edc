package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lg/nutri-track-api/internal/config"
	"lg/nutri-track-api/internal/recommend"
	"lg/nutri-track-api/internal/store"
)

var recommendUserID int

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Regenerate a user's recommendations and print the new batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recommendUserID <= 0 {
			return fmt.Errorf("--user must be > 0")
		}
		return withStore(cmd.Context(), func(st store.Store, _ config.Config) error {
			recs, err := recommend.NewEngine(st).Regenerate(cmd.Context(), recommendUserID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recs) > 0 {
				fmt.Fprintf(out, "Batch %s\n", recs[0].BatchID)
			}
			for _, r := range recs {
				fmt.Fprintf(out, "  [%-6s] %-9s %s\n", r.Priority, r.Type, r.Title)
			}
			fmt.Fprintf(out, "%d recommendation(s) generated.\n", len(recs))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVar(&recommendUserID, "user", 0, "User ID")
}
