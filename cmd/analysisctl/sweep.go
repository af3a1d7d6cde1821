package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one recovery pass over applications without an outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			report, err := d.Sweeper.SweepOnce(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pending=%d succeeded=%d failed=%d postings_closed=%d\n",
				report.Pending, report.Succeeded, report.Failed, report.PostingsClosed)
			return err
		},
	}
}
