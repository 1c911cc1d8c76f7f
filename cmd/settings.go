package cmd

import (
	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "settings", "Show or change global settings")

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.screens.Settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}
			table := a.printer.NewTable([]string{"SETTING", "VALUE"})
			table.AddRow([]string{"Default reward", formatAmount(v.Data.DefaultRewardAmount)})
			table.AddRow([]string{"Minimum withdrawal", formatAmount(v.Data.MinWithdrawalAmount)})
			table.AddRow([]string{"Payment gateway", v.Data.PaymentGateway})
			table.AddRow([]string{"Support email", v.Data.SupportEmail})
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("settings get")
			return nil
		},
	}
	addJSONFlag(get, a)

	var reward, minWithdrawal, gateway, email string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings; unset flags keep their current value",
		Long: `Change settings. The current values are loaded first and only the
flags given are replaced.

Examples:
  adminctl settings set --min-withdrawal 10
  adminctl settings set --gateway paypal --email support@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := a.screens.Settings.Form(cmd.Context())
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("reward") {
				form.DefaultRewardAmount = reward
			}
			if fs.Changed("min-withdrawal") {
				form.MinWithdrawalAmount = minWithdrawal
			}
			if fs.Changed("gateway") {
				form.PaymentGateway = gateway
			}
			if fs.Changed("email") {
				form.SupportEmail = email
			}
			return a.screens.Settings.Save(cmd.Context(), form)
		},
	}
	set.Flags().StringVar(&reward, "reward", "", "default reward amount")
	set.Flags().StringVar(&minWithdrawal, "min-withdrawal", "", "minimum withdrawal amount")
	set.Flags().StringVar(&gateway, "gateway", "", "payment gateway")
	set.Flags().StringVar(&email, "email", "", "support email")

	cmd.AddCommand(get, set)
	return cmd
}
