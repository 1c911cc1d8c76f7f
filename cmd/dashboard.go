package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show summary counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			v, err := a.screens.Dashboard.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}

			a.printer.Header("Dashboard")
			table := a.printer.NewTable([]string{"METRIC", "VALUE"})
			table.AddRow([]string{"Total users", strconv.Itoa(v.Data.TotalUsers)})
			table.AddRow([]string{"Active campaigns", strconv.Itoa(v.Data.ActiveCampaigns)})
			table.AddRow([]string{"Pending withdrawals", strconv.Itoa(v.Data.PendingWithdrawals)})
			table.AddRow([]string{"Gift codes", strconv.Itoa(v.Data.TotalGiftCodes)})
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("dashboard")
			return nil
		},
	}
	addJSONFlag(cmd, a)
	return cmd
}
