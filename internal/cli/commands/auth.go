package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/loader"
	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var (
	loginEmail    string
	loginPassword string
	loginName     string
	loginLanding  bool

	signupFile       string
	signupName       string
	signupEmail      string
	signupPassword   string
	signupRole       string
	signupDepartment string
)

// loginCmd is the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "sign in to the Cora backend",
	Long: `Sign in and store the session locally.

By default the admin form is used: admins land on their dashboard. With
--landing the public landing-page form is used instead, which only admits
users and opens the user chat.`,
	Example: `  # Admin sign in (prompts for the password)
  $ coractl login -e admin@example.com

  # User sign in through the landing page form
  $ coractl login --landing -n Ana -e ana@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd is the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "sign out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.session.SignOut(); err != nil {
			ui.PrintError("%v", err)
			return fmt.Errorf("sign out failed")
		}
		ui.PrintSuccess("Signed out")
		return nil
	},
}

// signupCmd is the signup command
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "register user accounts",
	Long: `Register a user account from flags, or a batch of accounts from a YAML file.

The file has the form:

  kind: Users
  spec:
    users:
      - name: Ana
        email: ana@example.com
        password: secret
        role: user
        department: HR`,
	Example: `  # Register one account
  $ coractl signup -n Ana -e ana@example.com --role adminapprover --department HR

  # Register a batch
  $ coractl signup -f users.yaml`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

// whoamiCmd prints the stored session
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := app.session.State()
		if !st.IsAuthenticated {
			ui.PrintWarning("Not signed in")
			return nil
		}
		ui.Println(strings.Join([]string{
			fmt.Sprintf("%-12s %s", "Name:", st.UserName),
			fmt.Sprintf("%-12s %s", "User ID:", st.UserID),
			fmt.Sprintf("%-12s %s", "Role:", st.Role),
			fmt.Sprintf("%-12s %s", "Department:", st.Department),
			fmt.Sprintf("%-12s %s", "Home:", navigation.Home(st.Role)),
			fmt.Sprintf("%-12s %s", "Server:", app.client.Server()),
		}, "\n"))
		return nil
	},
}

// openCmd resolves a web app path for the current session
var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "show where a web app path leads for this session",
	Example: `  $ coractl open /cosuperadmin/themes
  $ coractl open "/auth/reset-password?token=abc"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := app.router.Navigate(args[0], app.navSession())
		if err != nil {
			ui.PrintError("%v", err)
			return fmt.Errorf("navigation failed")
		}
		for _, hop := range res.Redirects {
			ui.PrintInfo("Redirected to %s", hop)
		}
		ui.PrintSuccess("Page %s (%s)", res.Page, res.Path)
		for k, v := range res.Params {
			ui.Println(fmt.Sprintf("  %s = %s", k, v))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when empty)")
	loginCmd.Flags().StringVarP(&loginName, "name", "n", "", "Display name, sent by the landing page form")
	loginCmd.Flags().BoolVar(&loginLanding, "landing", false, "Use the public landing page form")

	signupCmd.Flags().StringVarP(&signupFile, "file", "f", "", "YAML file with a batch of accounts")
	signupCmd.Flags().StringVarP(&signupName, "name", "n", "", "Display name")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Email")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "Password (prompted when empty)")
	signupCmd.Flags().StringVar(&signupRole, "role", "", "Role: superadmin, co-superadmin, admincreator, adminapprover or user")
	signupCmd.Flags().StringVar(&signupDepartment, "department", "", "Department name")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if loginLanding {
		if err := askValue(&loginName, "Name:", false); err != nil {
			return err
		}
	}
	if err := askValue(&loginEmail, "Email:", false); err != nil {
		return err
	}
	if err := askValue(&loginPassword, "Password:", true); err != nil {
		return err
	}

	ui.PrintInfo("Connecting to %s...", app.client.Server())

	creds := types.Credentials{Email: loginEmail, Password: loginPassword}
	entry := navigation.EntryAdmin
	if loginLanding {
		creds.Name = loginName
		entry = navigation.EntryLanding
	}

	resp, err := app.session.SignIn(ctx, creds)
	if err != nil {
		ui.PrintErrorBox("Login Failed", app.session.State().Err)
		return fmt.Errorf("authentication failed")
	}

	route, err := navigation.PostLoginRoute(entry, types.ParseRole(resp.User.Role))
	if errors.Is(err, navigation.ErrUnauthorizedRole) {
		// The session stays signed in; only the landing route is refused.
		ui.PrintErrorBox("Login Failed", err.Error())
		return fmt.Errorf("authentication failed")
	}

	ui.PrintSuccessBox("✓ Login Successful", fmt.Sprintf(`Name:     %s
Role:     %s
Opens:    %s
Server:   %s`,
		resp.User.Name,
		resp.User.Role,
		route,
		app.client.Server(),
	))
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	var requests []types.SignupRequest
	if signupFile != "" {
		ui.PrintInfo("Loading accounts from file: %s", signupFile)
		payload, err := loader.LoadFromFile(signupFile)
		if err != nil {
			ui.PrintError("failed to load file: %v", err)
			return fmt.Errorf("file load failed")
		}
		requests, err = payload.ToSignupRequests()
		if err != nil {
			ui.PrintError("invalid accounts: %v", err)
			return fmt.Errorf("file load failed")
		}
	} else {
		if err := askValue(&signupName, "Name:", false); err != nil {
			return err
		}
		if err := askValue(&signupEmail, "Email:", false); err != nil {
			return err
		}
		if err := askValue(&signupPassword, "Password:", true); err != nil {
			return err
		}
		requests = []types.SignupRequest{{
			Name:       signupName,
			Email:      signupEmail,
			Password:   signupPassword,
			Role:       signupRole,
			Department: signupDepartment,
		}}
	}

	failed := 0
	for _, req := range requests {
		user, err := app.session.SignUp(ctx, req)
		if err != nil {
			failed++
			ui.PrintError("failed to register %s: %s", req.Email, app.session.State().Err)
			continue
		}
		id := ""
		if user != nil && !user.ID.IsZero() {
			id = fmt.Sprintf(" (id %s)", user.ID)
		}
		ui.PrintSuccess("Registered %s%s", req.Email, id)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d registrations failed", failed, len(requests))
	}
	return nil
}
