package commands

import (
	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

// conversationsCmd is the parent conversations command
var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "browse saved chat conversations",
}

var convListCmd = &cobra.Command{
	Use:   "list",
	Short: "list saved conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		convs, err := app.client.ListConversations(commandContext(cmd))
		if err != nil {
			return reportFailure("List failed", err)
		}
		ui.Println(ui.RenderConversations(convs))
		ui.Println(ui.RenderSummary(len(convs), "conversation", "conversations"))
		return nil
	},
}

var convShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "print a saved conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := app.client.GetConversation(commandContext(cmd), types.ID(args[0]))
		if err != nil {
			return reportFailure("Load failed", err)
		}

		ui.PrintBold("%s", conv.Title)
		for _, m := range conv.Messages {
			ui.Println("")
			if m.Role == types.RoleNameUser {
				ui.Println(ui.Styles.Bold.Render("You"))
			} else {
				ui.Println(ui.Styles.Highlight.Render("Assistant"))
			}
			for _, img := range m.Images {
				ui.Println(ui.Styles.Muted.Render("📎 " + img))
			}
			ui.Println(m.Content)
		}
		return nil
	},
}

func init() {
	conversationsCmd.AddCommand(convListCmd, convShowCmd)
}
