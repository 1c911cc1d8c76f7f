package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/admin"
	"github.com/alt-project/adminctl/internal/domain"
)

func newScreenshotsCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "screenshots", "Review pending screenshots")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending screenshots",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.screens.Screenshots.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := settle(a, v); err != nil {
				return err
			}
			if a.jsonMode {
				return a.printer.JSON(v.Data)
			}
			table := a.printer.NewTable([]string{"", "ID", "USER", "URL", "SUBMITTED"})
			for _, s := range v.Data {
				mark := ""
				if a.screens.Screenshots.Selection.Contains(s.ID) {
					mark = "*"
				}
				table.AddRow([]string{mark, s.ID.String(), s.UserID.String(), s.URL, formatTime(s.CreatedAt)})
			}
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("screenshots list")
			return nil
		},
	}
	addJSONFlag(list, a)

	review := func(action string) *cobra.Command {
		approve := action == admin.ActionApprove
		var all bool
		c := &cobra.Command{
			Use:   action + " [ids...]",
			Short: action + " screenshots; several ids or --all go out as one request",
			RunE: func(cmd *cobra.Command, args []string) error {
				screen := a.screens.Screenshots
				if !all && len(args) == 1 {
					return screen.Review(cmd.Context(), domain.ID(args[0]), approve)
				}
				// without ids or --all the current selection is reviewed
				if all || len(args) > 0 {
					screen.Selection.Clear()
				}
				if all {
					if err := screen.SelectAll(cmd.Context()); err != nil {
						return err
					}
				}
				for _, id := range toIDs(args) {
					if !screen.Selection.Contains(id) {
						screen.Selection.Toggle(id)
					}
				}
				return screen.ReviewSelected(cmd.Context(), approve)
			},
		}
		c.Flags().BoolVar(&all, "all", false, "select every pending screenshot")
		return c
	}

	var all bool
	sel := &cobra.Command{
		Use:   "select [ids...]",
		Short: "Toggle screenshots in the selection reviewed by approve/reject without ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := a.screens.Screenshots
			if all {
				if err := screen.SelectAll(cmd.Context()); err != nil {
					return err
				}
			}
			for _, id := range toIDs(args) {
				screen.Toggle(id)
			}
			a.printer.Info("%d selected", screen.Selection.Len())
			return nil
		},
	}
	sel.Flags().BoolVar(&all, "all", false, "select every pending screenshot, or none when all are selected")

	cmd.AddCommand(list, sel, review(admin.ActionApprove), review(admin.ActionReject))
	return cmd
}
