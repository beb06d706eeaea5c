package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/chat"
	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/tui"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var (
	chatAsUser      bool
	askAttachments  []string
	askConversation bool
)

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [conversation-id]",
	Short: "start an interactive chat with the assistant",
	Long: `Start an interactive chat with the assistant.

Answers stream in as they are generated. When signed in, every exchange is
saved under a conversation that can be reopened by id. With --user the chat
opens as the signed-in user's page, which only the user role may open.

Keyboard controls:
  • Enter sends the message
  • /attach <file> adds an attachment to the next message
  • Ctrl+N starts a new chat
  • Esc quits`,
	Example: `  # Start a new chat
  $ coractl chat

  # Continue a saved conversation
  $ coractl chat 42

  # Open the user chat page
  $ coractl chat --user`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

// askCmd is the one-shot landing page question
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "ask the assistant a single question",
	Example: `  $ coractl ask "How many leave days do I get?"
  $ coractl ask "What does this form say?" -a form.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	chatCmd.Flags().BoolVar(&chatAsUser, "user", false, "Open the signed-in user's chat page")
	askCmd.Flags().StringSliceVarP(&askAttachments, "attach", "a", nil, "File to attach (repeatable)")
	askCmd.Flags().BoolVar(&askConversation, "save", false, "Save the exchange as a conversation")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	var (
		res *navigation.Resolution
		err error
	)
	switch {
	case chatAsUser:
		res, err = app.requirePage(navigation.PageUserChat)
	case len(args) == 1:
		var path string
		if path, err = app.router.Path(navigation.PageChatConversation, "convId", args[0]); err == nil {
			res, err = app.router.Navigate(path, app.navSession())
		}
	default:
		res, err = app.requirePage(navigation.PageChat)
	}
	if err != nil {
		if !errors.Is(err, errAccessDenied) {
			ui.PrintError("%v", err)
		}
		return err
	}

	if err := app.settings.Load(ctx); err != nil {
		ui.PrintWarning("using default branding: %s", client.UserMessage(err))
	}
	branding := app.settings.Display()

	opts := tui.ChatOptions{
		Persist: app.session.State().IsAuthenticated,
		Title:   branding.Name,
		Accent:  branding.PrimaryColor,
	}
	if id := res.Params["convId"]; id != "" {
		opts.ConversationID = types.ID(id)
	}

	return tui.NewChatProgram(ctx, app.client, opts).Run()
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	query := strings.Join(args, " ")

	attachments := make([]client.Attachment, 0, len(askAttachments))
	for _, path := range askAttachments {
		a, err := client.OpenAttachment(path)
		if err != nil {
			ui.PrintError("%v", err)
			return fmt.Errorf("file load failed")
		}
		attachments = append(attachments, a)
	}

	printer := &answerPrinter{}
	opts := []chat.Option{chat.OnChange(printer.onChange)}
	if askConversation {
		opts = append(opts, chat.WithPersistence())
	}
	session := chat.NewSession(app.client, opts...)

	err := session.Submit(ctx, query, attachments)
	ui.Println("")
	if err != nil {
		if errors.Is(err, chat.ErrCreateConversation) {
			ui.PrintError("%s", chat.ErrCreateConversation)
			return fmt.Errorf("generation failed")
		}
		ui.PrintError("%s", client.UserMessage(err))
		return fmt.Errorf("generation failed")
	}
	if id := session.Snapshot().ConversationID; !id.IsZero() {
		ui.PrintInfo("Saved as conversation %s", id)
	}
	return nil
}

// answerPrinter writes the open assistant message as it grows
type answerPrinter struct {
	printed string
}

func (p *answerPrinter) onChange(s chat.Snapshot) {
	last, ok := s.Last()
	if !ok || last.Role != types.RoleNameAssistant {
		return
	}
	if rest, ok := strings.CutPrefix(last.Text, p.printed); ok {
		fmt.Fprint(ui.Out, rest)
	} else {
		// The answer was replaced, e.g. by the failure text.
		fmt.Fprint(ui.Out, "\n"+last.Text)
	}
	p.printed = last.Text
}
