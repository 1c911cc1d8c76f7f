package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/interaction"
)

func newAPIKeysCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "apikeys", "Manage API keys")
	cmd.Aliases = []string{"api-keys"}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List API keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.screens.APIKeys.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}
			table := a.printer.NewTable([]string{"ID", "NAME", "KEY", "CREATED"})
			for _, k := range v.Data {
				table.AddRow([]string{k.ID.String(), k.Name, k.Key, formatTime(k.CreatedAt)})
			}
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("apikeys list")
			return nil
		},
	}
	addJSONFlag(list, a)

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an API key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.screens.APIKeys.Create(cmd.Context(), interaction.APIKeyForm{Name: strings.Join(args, " ")})
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an API key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.screens.APIKeys.Delete(cmd.Context(), domain.ID(args[0]))
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}
