package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/loader"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var (
	infoDescription string
	infoFile        string
	infoForce       bool
)

// docinfoCmd is the parent document type command
var docinfoCmd = &cobra.Command{
	Use:   "docinfo",
	Short: "manage document types",
	Long: `Document types are the titles documents are filed under.

Types can be created one at a time or in a batch from a YAML file:

  kind: DocumentInfo
  spec:
    types:
      - title: Leave policy
        description: Annual and sick leave rules`,
}

var infoListCmd = &cobra.Command{
	Use:   "list",
	Short: "list document types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(uploadPages...); err != nil {
			return err
		}

		infos, err := app.client.ListDocumentInfo(commandContext(cmd))
		if err != nil {
			return reportFailure("List failed", err)
		}
		ui.Println(ui.RenderDocumentInfo(infos))
		ui.Println(ui.RenderSummary(len(infos), "document type", "document types"))
		return nil
	},
}

var infoCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "create document types",
	Example: `  $ coractl docinfo create "Leave policy" -d "Annual and sick leave rules"
  $ coractl docinfo create -f types.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(uploadPages...); err != nil {
			return err
		}

		var requests []types.DocumentInfoRequest
		switch {
		case infoFile != "":
			payload, err := loader.LoadFromFile(infoFile)
			if err != nil {
				ui.PrintError("failed to load file: %v", err)
				return fmt.Errorf("file load failed")
			}
			if requests, err = payload.ToDocumentInfoRequests(); err != nil {
				ui.PrintError("invalid document types: %v", err)
				return fmt.Errorf("file load failed")
			}
		case len(args) == 1:
			requests = []types.DocumentInfoRequest{{Title: args[0], Description: infoDescription}}
		default:
			ui.PrintError("a title or --file is required")
			return fmt.Errorf("invalid arguments")
		}

		ctx := commandContext(cmd)
		for _, req := range requests {
			info, err := app.client.CreateDocumentInfo(ctx, req)
			if err != nil {
				return reportFailure("Create failed", err)
			}
			ui.PrintSuccess("Created document type %s (id %s)", info.Title, info.ID)
		}
		return nil
	},
}

var infoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete a document type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(uploadPages...); err != nil {
			return err
		}
		ok, err := confirmAction(infoForce, "Delete document type %s?", args[0])
		if err != nil || !ok {
			return err
		}

		resp, err := app.client.DeleteDocumentInfo(commandContext(cmd), types.ID(args[0]))
		if err != nil {
			return reportFailure("Delete failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Deleted document type "+args[0]))
		return nil
	},
}

func init() {
	infoCreateCmd.Flags().StringVarP(&infoDescription, "description", "d", "", "Description")
	infoCreateCmd.Flags().StringVarP(&infoFile, "file", "f", "", "YAML file with a batch of types")
	infoDeleteCmd.Flags().BoolVarP(&infoForce, "force", "f", false, "Skip confirmation prompt")

	docinfoCmd.AddCommand(infoListCmd, infoCreateCmd, infoDeleteCmd)
}
