package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/interaction"
)

func newChannelsCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "channels", "Manage channels")
	screen := func() *interaction.ChannelsScreen { return a.screens.Channels }

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List channels",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := screen().Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}
			table := a.printer.NewTable([]string{"ID", "NAME", "DESCRIPTION"})
			for _, c := range v.Data {
				table.AddRow([]string{c.ID.String(), c.Name, c.Description})
			}
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("channels list")
			return nil
		},
	}
	addJSONFlag(list, a)

	var name, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := screen().OpenNew()
			form.Name, form.Description = name, description
			return screen().Submit(cmd.Context(), form)
		},
	}
	create.Flags().StringVar(&name, "name", "", "channel name")
	create.Flags().StringVar(&description, "description", "", "channel description")

	var newName, newDescription string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a channel; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := screen().Find(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			form := screen().OpenEdit(c)
			if cmd.Flags().Changed("name") {
				form.Name = newName
			}
			if cmd.Flags().Changed("description") {
				form.Description = newDescription
			}
			return screen().Submit(cmd.Context(), form)
		},
	}
	update.Flags().StringVar(&newName, "name", "", "channel name")
	update.Flags().StringVar(&newDescription, "description", "", "channel description")

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a channel",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return screen().Delete(cmd.Context(), domain.ID(args[0]))
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
