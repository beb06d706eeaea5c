package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var deptForce bool

// departmentsCmd is the parent departments command
var departmentsCmd = &cobra.Command{
	Use:     "departments",
	Aliases: []string{"dept"},
	Short:   "manage departments",
	Long: `Create, rename, list and delete departments.

Available to co-super admins.`,
}

var deptListCmd = &cobra.Command{
	Use:   "list",
	Short: "list departments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(navigation.PageCoSuperAdminDepartments); err != nil {
			return err
		}

		app.session.GetDepartments(commandContext(cmd))
		st := app.session.State()
		if st.Err != "" {
			ui.PrintError("%s", st.Err)
			return fmt.Errorf("list operation failed")
		}

		ui.Println(ui.RenderDepartments(st.Departments))
		ui.Println(ui.RenderSummary(len(st.Departments), "department", "departments"))
		return nil
	},
}

var deptCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "create a department",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(navigation.PageCoSuperAdminDepartments); err != nil {
			return err
		}

		dept, err := app.session.AddDepartment(commandContext(cmd), args[0])
		if err != nil {
			ui.PrintError("%s", app.session.State().Err)
			return fmt.Errorf("create failed")
		}
		ui.PrintSuccess("Created department %s (id %s)", dept.DepartmentName, dept.ID)
		return nil
	},
}

var deptUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "rename a department",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(navigation.PageCoSuperAdminDepartments); err != nil {
			return err
		}

		if err := app.session.UpdateDepartment(commandContext(cmd), types.ID(args[0]), args[1]); err != nil {
			ui.PrintError("%s", app.session.State().Err)
			return fmt.Errorf("update failed")
		}
		ui.PrintSuccess("Renamed department %s to %s", args[0], args[1])
		return nil
	},
}

var deptDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete a department",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(navigation.PageCoSuperAdminDepartments); err != nil {
			return err
		}
		ok, err := confirmAction(deptForce, "Delete department %s?", args[0])
		if err != nil || !ok {
			return err
		}

		ctx := commandContext(cmd)
		app.session.GetDepartments(ctx)
		if err := app.session.DeleteDepartment(ctx, types.ID(args[0])); err != nil {
			ui.PrintError("%s", app.session.State().Err)
			return fmt.Errorf("delete failed")
		}
		ui.PrintSuccess("Deleted department %s", args[0])
		if remaining := app.session.State().Departments; len(remaining) > 0 {
			ui.Println(ui.RenderDepartments(remaining))
		}
		return nil
	},
}

func init() {
	deptDeleteCmd.Flags().BoolVarP(&deptForce, "force", "f", false, "Skip confirmation prompt")

	departmentsCmd.AddCommand(deptListCmd, deptCreateCmd, deptUpdateCmd, deptDeleteCmd)
}
