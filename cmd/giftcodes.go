package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/interaction"
)

func newGiftCodesCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "giftcodes", "Manage gift codes")
	cmd.Aliases = []string{"gift-codes"}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List gift codes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.screens.GiftCodes.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}
			table := a.printer.NewTable([]string{"ID", "CODE", "AMOUNT", "CREATED"})
			for _, g := range v.Data {
				table.AddRow([]string{g.ID.String(), g.Code, formatAmount(g.Amount), formatTime(g.CreatedAt)})
			}
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("giftcodes list")
			return nil
		},
	}
	addJSONFlag(list, a)

	create := &cobra.Command{
		Use:   "create <amount>",
		Short: "Create a gift code worth amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.screens.GiftCodes.Create(cmd.Context(), interaction.GiftCodeForm{Amount: args[0]})
		},
	}
	create.Flags().SetInterspersed(false)

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a gift code",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.screens.GiftCodes.Delete(cmd.Context(), domain.ID(args[0]))
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}
