package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var (
	userUpdate types.UserUpdate
	userForce  bool
)

// usersPages are the admin pages that manage accounts
var usersPages = []string{navigation.PageSuperAdminUsers, navigation.PageCoSuperAdminAdmins}

// usersCmd is the parent users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "manage user accounts",
	Long: `List, update and delete user accounts.

Available to super admins and co-super admins.`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "list user accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(usersPages...); err != nil {
			return err
		}

		ui.PrintInfo("Fetching users...")
		app.session.FetchUsers(commandContext(cmd))
		st := app.session.State()
		if st.Err != "" {
			ui.PrintError("%s", st.Err)
			return fmt.Errorf("list operation failed")
		}

		ui.Println("")
		ui.Println(ui.RenderUsers(st.Users))
		ui.Println(ui.RenderSummary(len(st.Users), "user", "users"))
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "update a user account",
	Example: `  $ coractl users update 12 --role adminapprover --department Finance
  $ coractl users update 12 --status inactive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(usersPages...); err != nil {
			return err
		}
		if userUpdate == (types.UserUpdate{}) {
			ui.PrintError("nothing to update")
			ui.Println(fmt.Sprintf("\nRun '%s --help' for usage.", cmd.CommandPath()))
			return fmt.Errorf("invalid arguments")
		}

		if err := app.client.UpdateUser(commandContext(cmd), types.ID(args[0]), userUpdate); err != nil {
			return reportFailure("Update failed", err)
		}
		ui.PrintSuccess("Updated user %s", args[0])
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(usersPages...); err != nil {
			return err
		}
		ok, err := confirmAction(userForce, "Delete user %s?", args[0])
		if err != nil || !ok {
			return err
		}

		if err := app.client.DeleteUser(commandContext(cmd), types.ID(args[0])); err != nil {
			return reportFailure("Delete failed", err)
		}
		ui.PrintSuccess("Deleted user %s", args[0])
		return nil
	},
}

func init() {
	f := usersUpdateCmd.Flags()
	f.StringVarP(&userUpdate.Name, "name", "n", "", "New display name")
	f.StringVarP(&userUpdate.Email, "email", "e", "", "New email")
	f.StringVar(&userUpdate.Role, "role", "", "New role")
	f.StringVar(&userUpdate.Department, "department", "", "New department")
	f.StringVar(&userUpdate.Status, "status", "", "New status")

	usersDeleteCmd.Flags().BoolVarP(&userForce, "force", "f", false, "Skip confirmation prompt")

	usersCmd.AddCommand(usersListCmd, usersUpdateCmd, usersDeleteCmd)
}
