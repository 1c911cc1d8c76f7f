package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/interaction"
)

type campaignFlags struct {
	form interaction.CampaignForm
}

func (f *campaignFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.form.Name, "name", "", "campaign name")
	fs.StringVar(&f.form.Description, "description", "", "campaign description")
	fs.StringVar(&f.form.RewardAmount, "reward", "", "reward amount")
	fs.StringVar(&f.form.Status, "status", interaction.DefaultCampaignStatus, "campaign status")
	fs.StringVar(&f.form.Instructions, "instructions", "", "instructions shown to users")
}

// apply copies the flags the operator set onto form.
func (f *campaignFlags) apply(fs *pflag.FlagSet, form interaction.CampaignForm) interaction.CampaignForm {
	if fs.Changed("name") {
		form.Name = f.form.Name
	}
	if fs.Changed("description") {
		form.Description = f.form.Description
	}
	if fs.Changed("reward") {
		form.RewardAmount = f.form.RewardAmount
	}
	if fs.Changed("status") {
		form.Status = f.form.Status
	}
	if fs.Changed("instructions") {
		form.Instructions = f.form.Instructions
	}
	return form
}

func newCampaignsCmd(a *app) *cobra.Command {
	cmd := newGroupCmd(a, "campaigns", "Manage campaigns")
	screen := func() *interaction.CampaignsScreen { return a.screens.Campaigns }

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List campaigns",
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
			table := a.printer.NewTable([]string{"ID", "NAME", "REWARD", "STATUS", "DESCRIPTION"})
			for _, c := range v.Data {
				table.AddRow([]string{c.CampaignID.String(), c.Name, formatAmount(c.RewardAmount), a.printer.StatusBadge(c.Status), c.Description})
			}
			if err := table.Render(); err != nil {
				return err
			}
			a.printer.PrintHints("campaigns list")
			return nil
		},
	}
	addJSONFlag(list, a)

	var createFlags campaignFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign",
		Long: `Create a campaign. Name, description and reward are required; status
defaults to active.

Examples:
  adminctl campaigns create --name "Spring" --description "Install the app" --reward 2.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := createFlags.apply(cmd.Flags(), screen().OpenNew())
			return screen().Submit(cmd.Context(), form)
		},
	}
	createFlags.register(create.Flags())

	var updateFlags campaignFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a campaign; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := screen().Find(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			form := updateFlags.apply(cmd.Flags(), screen().OpenEdit(c))
			return screen().Submit(cmd.Context(), form)
		},
	}
	updateFlags.register(update.Flags())

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a campaign",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return screen().Delete(cmd.Context(), domain.ID(args[0]))
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
