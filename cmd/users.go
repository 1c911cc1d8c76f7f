package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/domain"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "users", "List users, change bans and adjust wallets")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.screens.Users.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}
			table := a.printer.NewTable([]string{"ID", "USERNAME", "EMAIL", "BALANCE", "STATUS"})
			for _, u := range v.Data {
				status := "active"
				if u.IsBanned {
					status = "banned"
				}
				table.AddRow([]string{u.ID.String(), u.Username, u.Email, formatAmount(u.WalletBalance), a.printer.StatusBadge(status)})
			}
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("users list")
			return nil
		},
	}
	addJSONFlag(list, a)

	ban := &cobra.Command{
		Use:   "ban <id>",
		Short: "Ban a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.screens.Users.SetBan(cmd.Context(), domain.ID(args[0]), true)
		},
	}
	unban := &cobra.Command{
		Use:   "unban <id>",
		Short: "Lift a user's ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.screens.Users.SetBan(cmd.Context(), domain.ID(args[0]), false)
		},
	}
	toggle := &cobra.Command{
		Use:   "toggle-ban <id>",
		Short: "Flip a user's ban flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.screens.Users.Find(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			return a.screens.Users.ToggleBan(cmd.Context(), u)
		},
	}
	wallet := &cobra.Command{
		Use:   "wallet <id> <amount>",
		Short: "Add to (or with a negative amount, subtract from) a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.screens.Users.AdjustWallet(cmd.Context(), domain.ID(args[0]), args[1])
		},
	}
	// negative amounts must not be parsed as flags
	wallet.Flags().SetInterspersed(false)

	cmd.AddCommand(list, ban, unban, toggle, wallet)
	return cmd
}
