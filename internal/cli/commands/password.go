package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var (
	resetEmail    string
	resetToken    string
	resetPassword string
	resetOTP      string
)

// passwordCmd is the parent password command
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "reset a forgotten password",
	Long: `Reset a forgotten password in two steps.

request-reset emails a reset link. Its token is passed to reset, which asks
for the new password, has the backend send a one-time code and completes the
reset with that code.`,
}

var requestResetCmd = &cobra.Command{
	Use:   "request-reset",
	Short: "email a password reset link",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := askValue(&resetEmail, "Email:", false); err != nil {
			return err
		}
		resp, err := app.client.RequestPasswordReset(commandContext(cmd), resetEmail)
		if err != nil {
			return reportFailure("Request failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Reset link sent to "+resetEmail))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "set a new password with a reset token",
	Example: `  $ coractl password reset --token 3f2a...`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)

		path, err := app.router.Path(navigation.PageResetPassword)
		if err != nil {
			return err
		}
		res, err := app.router.Navigate(path+"?"+url.Values{"token": {resetToken}}.Encode(), app.navSession())
		if err != nil {
			return err
		}
		if res.Redirected() {
			ui.PrintError("a reset token is required")
			ui.PrintInfo("Redirected to %s", res.Path)
			return fmt.Errorf("invalid arguments")
		}
		token := res.Query.Get("token")

		if err := askValue(&resetPassword, "New password:", true); err != nil {
			return err
		}
		if _, err := app.client.RequestPasswordOTP(ctx, token, resetPassword); err != nil {
			return reportFailure("Reset failed", err)
		}
		ui.PrintInfo("A one-time code was sent to your email")

		if err := askValue(&resetOTP, "Code:", false); err != nil {
			return err
		}
		resp, err := app.client.ChangePassword(ctx, types.ChangePasswordRequest{
			Token:    token,
			Password: resetPassword,
			OTP:      resetOTP,
		})
		if err != nil {
			return reportFailure("Reset failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Password changed"))
		return nil
	},
}

func init() {
	requestResetCmd.Flags().StringVarP(&resetEmail, "email", "e", "", "Account email")
	resetCmd.Flags().StringVar(&resetToken, "token", "", "Token from the reset link")
	resetCmd.Flags().StringVarP(&resetPassword, "password", "p", "", "New password (prompted when empty)")
	resetCmd.Flags().StringVar(&resetOTP, "otp", "", "One-time code (prompted when empty)")

	passwordCmd.AddCommand(requestResetCmd, resetCmd)
}
