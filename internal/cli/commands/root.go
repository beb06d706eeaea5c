package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/ui"
)

const version = "0.1.0"

var (
	configPath  string
	serverFlag  string
	verboseFlag bool
)

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "coractl",
	Short:   "Cora document and Q&A console",
	Version: version,
	Long: `A command-line client for the Cora document and Q&A backend.

Administrators manage users, departments, documents and branding; users chat
with the assistant over the approved documents. Your session is stored in
~/.cora and reused by every command until you log out.`,
	Example: `  # Sign in through the admin form
  $ coractl login -e admin@example.com

  # List documents waiting for approval
  $ coractl documents list

  # Start an interactive chat
  $ coractl chat

  # Get help on a specific command
  $ coractl documents --help`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
	SilenceErrors:      true,
	SilenceUsage:       true,
}

// Execute executes the root command
func Execute(ctx context.Context) error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.cora/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Backend base URL, overrides the config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log requests at debug level")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(departmentsCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(docinfoCmd)
	rootCmd.AddCommand(conversationsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(passwordCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("coractl version %s\n", version)
}
