package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/admin"
	"github.com/alt-project/adminctl/internal/domain"
)

func newWithdrawalsCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "withdrawals", "Review withdrawal requests")

	var status string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List withdrawals",
		Long: `List withdrawals, optionally filtered by status.

Examples:
  adminctl withdrawals list
  adminctl withdrawals list --status pending`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := a.screens.Withdrawals
			if err := screen.SetFilter(status); err != nil {
				return err
			}
			v, err := screen.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}
			table := a.printer.NewTable([]string{"ID", "USER", "AMOUNT", "STATUS", "REQUESTED"})
			for _, w := range v.Data {
				table.AddRow([]string{w.ID.String(), w.User, formatAmount(w.Amount), a.printer.StatusBadge(w.Status), formatTime(w.RequestedAt)})
			}
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("withdrawals list")
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "all", "filter: all, pending, approved, or rejected")
	addJSONFlag(list, a)

	review := func(action string) *cobra.Command {
		return &cobra.Command{
			Use:   action + " <id>",
			Short: "Mark a pending withdrawal " + action + "d",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.screens.Withdrawals.ReviewByID(cmd.Context(), domain.ID(args[0]), action); err != nil {
					return err
				}
				a.printer.PrintHints("withdrawals " + action)
				return nil
			},
		}
	}

	cmd.AddCommand(list, review(admin.ActionApprove), review(admin.ActionReject))
	return cmd
}
