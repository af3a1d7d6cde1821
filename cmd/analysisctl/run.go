package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"recruit-backend/internal/shared/util"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <applicationId>",
		Short: "Run the analysis for one application and print the stored outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applicationID, err := util.ParseID(args[0])
			if err != nil {
				return fmt.Errorf("application id %q: %w", args[0], err)
			}
			d, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			outcome, err := d.Analyses.RunAnalysis(cmd.Context(), applicationID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		},
	}
}
