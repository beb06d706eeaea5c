package commands

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// themeCmd is the parent branding command
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "show or change the organisation branding",
	Long: `Show or change the organisation name, logo and colors.

Anyone can show the branding; changing it is available to co-super admins.`,
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "show the current branding",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.settings.Load(commandContext(cmd)); err != nil {
			return reportFailure("Load failed", err)
		}
		ui.Println(ui.RenderSettings(app.settings.Display()))
		return nil
	},
}

var themeNameCmd = &cobra.Command{
	Use:   "set-name <name>",
	Short: "rename the organisation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeTheme(cmd, func() error {
			return app.settings.ChangeName(commandContext(cmd), args[0])
		})
	},
}

var themeColorsCmd = &cobra.Command{
	Use:     "set-colors <primary> <secondary>",
	Short:   "set the brand colors",
	Example: `  $ coractl theme set-colors "#0f766e" "#475569"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range args {
			if !hexColor.MatchString(c) {
				ui.PrintError("invalid color %q, expected #rgb or #rrggbb", c)
				return fmt.Errorf("invalid arguments")
			}
		}
		return changeTheme(cmd, func() error {
			return app.settings.ChangeColor(commandContext(cmd), args[0], args[1])
		})
	},
}

var themeLogoCmd = &cobra.Command{
	Use:   "upload-logo <file>",
	Short: "upload a new logo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := client.OpenAttachment(args[0])
		if err != nil {
			ui.PrintError("%v", err)
			return fmt.Errorf("file load failed")
		}
		return changeTheme(cmd, func() error {
			return app.settings.ChangeLogo(commandContext(cmd), file)
		})
	},
}

func init() {
	themeCmd.AddCommand(themeShowCmd, themeNameCmd, themeColorsCmd, themeLogoCmd)
}

// changeTheme loads the branding, applies change and prints the result
func changeTheme(cmd *cobra.Command, change func() error) error {
	if _, err := app.requirePage(navigation.PageCoSuperAdminThemes); err != nil {
		return err
	}
	if err := app.settings.Load(commandContext(cmd)); err != nil {
		ui.PrintWarning("failed to load current branding: %s", client.UserMessage(err))
	}
	if err := change(); err != nil {
		return reportFailure("Update failed", err)
	}
	ui.PrintSuccess("Branding updated")
	ui.Println(ui.RenderSettings(app.settings.Display()))
	return nil
}
