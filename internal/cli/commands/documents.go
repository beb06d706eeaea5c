package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/loader"
	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/store"
	"github.com/lvyanru/coractl/internal/cli/types"
	"github.com/lvyanru/coractl/internal/cli/ui"
)

var (
	docCached   bool
	docOutput   string
	docTitleID  string
	docKeywords []string
	docFile     string
	docStatus   string
	docRemarks  string
	docForce    bool

	docEditTitle   string
	docEditContent string
)

var (
	// documentPages can browse and edit documents
	documentPages = []string{navigation.PageAdminCreatorDocuments, navigation.PageAdminApproverDocuments}
	// uploadPages can file new documents
	uploadPages = []string{navigation.PageAdminCreatorDocuments, navigation.PageAdminApproverUpload}
)

// documentsCmd is the parent documents command
var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "manage documents",
	Long: `Upload, review and maintain the documents the assistant answers from.

Creators upload and edit documents; approvers approve or decline them.`,
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "list documents grouped by title",
	Example: `  # Fetch from the backend and refresh the local cache
  $ coractl documents list

  # Show the last fetched list without a request
  $ coractl documents list --cached`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(documentPages...); err != nil {
			return err
		}

		var (
			docs []types.Document
			err  error
		)
		if docCached {
			docs, err = app.docs.Cached()
			if errors.Is(err, store.ErrNoCachedDocuments) {
				ui.PrintWarning("No cached documents, run 'coractl documents list' first")
				return nil
			}
		} else {
			ui.PrintInfo("Fetching documents...")
			docs, err = app.docs.Refresh(commandContext(cmd))
		}
		if err != nil && docs == nil {
			return reportFailure("List failed", err)
		}
		if err != nil {
			ui.PrintWarning("%v", err)
		}

		ui.Println("")
		ui.Println(ui.RenderDocumentTree(docs))
		ui.Println(ui.RenderSummary(len(docs), "document", "documents"))
		return nil
	},
}

var docByTitleCmd = &cobra.Command{
	Use:   "by-title <title>",
	Short: "list the documents filed under a title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(documentPages...); err != nil {
			return err
		}

		docs, err := app.client.ListDocumentsByTitle(commandContext(cmd), args[0])
		if err != nil {
			return reportFailure("List failed", err)
		}
		ui.Println(ui.RenderDocumentTree(docs))
		ui.Println(ui.RenderSummary(len(docs), "document", "documents"))
		return nil
	},
}

var docViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "download the content of a document",
	Example: `  $ coractl documents view 7 -o policy.pdf
  $ coractl documents view 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(documentPages...); err != nil {
			return err
		}

		blob, err := app.client.ViewDocument(commandContext(cmd), types.ID(args[0]))
		if err != nil {
			return reportFailure("View failed", err)
		}

		if docOutput != "" {
			if err := os.WriteFile(docOutput, blob.Data, 0o644); err != nil {
				ui.PrintError("failed to write %s: %v", docOutput, err)
				return fmt.Errorf("write failed")
			}
			ui.PrintSuccess("Saved %d bytes (%s) to %s", len(blob.Data), blob.ContentType, docOutput)
			return nil
		}
		if !isTextContent(blob.ContentType) {
			ui.PrintError("document is %s, use --output to save it", blob.ContentType)
			return fmt.Errorf("binary content")
		}
		ui.Println(string(blob.Data))
		return nil
	},
}

var docUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "upload a document for approval",
	Example: `  $ coractl documents upload leave-policy.pdf --title-id 3 -k leave -k hr`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(uploadPages...); err != nil {
			return err
		}
		if docTitleID == "" {
			ui.PrintError("--title-id is required")
			return fmt.Errorf("invalid arguments")
		}

		file, err := client.OpenAttachment(args[0])
		if err != nil {
			ui.PrintError("%v", err)
			return fmt.Errorf("file load failed")
		}

		resp, err := app.client.UploadDocument(commandContext(cmd), client.DocumentUpload{
			TitleID:  types.ID(docTitleID),
			Keywords: docKeywords,
			File:     file,
		})
		if err != nil {
			return reportFailure("Upload failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Uploaded "+file.Name))
		return nil
	},
}

var docManualCmd = &cobra.Command{
	Use:   "manual-entry",
	Short: "file a typed-in document",
	Long: `File a document typed in instead of uploaded, from flags or a YAML file:

  kind: ManualEntry
  spec:
    titleId: "3"
    content: |
      Employees accrue two leave days per month.
    keywords: [leave]`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(uploadPages...); err != nil {
			return err
		}

		entry := &types.ManualEntry{
			TitleID:  types.ID(docTitleID),
			Title:    docEditTitle,
			Content:  docEditContent,
			Keywords: docKeywords,
		}
		if docFile != "" {
			payload, err := loader.LoadFromFile(docFile)
			if err != nil {
				ui.PrintError("failed to load file: %v", err)
				return fmt.Errorf("file load failed")
			}
			if entry, err = payload.ToManualEntry(); err != nil {
				ui.PrintError("invalid manual entry: %v", err)
				return fmt.Errorf("file load failed")
			}
		}
		if entry.TitleID.IsZero() || strings.TrimSpace(entry.Content) == "" {
			ui.PrintError("a title id and content are required")
			return fmt.Errorf("invalid arguments")
		}

		resp, err := app.client.SubmitManualEntry(commandContext(cmd), *entry)
		if err != nil {
			return reportFailure("Submit failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Manual entry submitted"))
		return nil
	},
}

var docApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "approve a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(navigation.PageAdminApproverDocuments); err != nil {
			return err
		}

		status := docStatus
		if status == "" {
			status = "approved"
		}
		resp, err := app.client.ApproveDocument(commandContext(cmd), types.ID(args[0]), status)
		if err != nil {
			return reportFailure("Approval failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Approved document "+args[0]))
		return nil
	},
}

var docDeclineCmd = &cobra.Command{
	Use:     "decline <id>",
	Short:   "decline a document with remarks",
	Example: `  $ coractl documents decline 7 -r "Outdated, please upload the 2026 version"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(navigation.PageAdminApproverDocuments); err != nil {
			return err
		}
		if err := askValue(&docRemarks, "Remarks:", false); err != nil {
			return err
		}

		status := docStatus
		if status == "" {
			status = "declined"
		}
		resp, err := app.client.DeclineDocument(commandContext(cmd), types.ID(args[0]), status, docRemarks)
		if err != nil {
			return reportFailure("Decline failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Declined document "+args[0]))
		return nil
	},
}

var docEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "edit a document",
	Example: `  $ coractl documents edit 7 --title "Leave policy" -k leave
  $ coractl documents edit 7 --file leave-2026.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(documentPages...); err != nil {
			return err
		}

		edit := types.DocumentEdit{
			Title:    docEditTitle,
			TitleID:  types.ID(docTitleID),
			Content:  docEditContent,
			Keywords: docKeywords,
		}
		var file *client.Attachment
		if docFile != "" {
			a, err := client.OpenAttachment(docFile)
			if err != nil {
				ui.PrintError("%v", err)
				return fmt.Errorf("file load failed")
			}
			file = &a
		}
		if file == nil && edit.Title == "" && edit.TitleID.IsZero() && edit.Content == "" && len(edit.Keywords) == 0 {
			ui.PrintError("nothing to update")
			return fmt.Errorf("invalid arguments")
		}

		resp, err := app.client.EditDocument(commandContext(cmd), types.ID(args[0]), edit, file)
		if err != nil {
			return reportFailure("Update failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Updated document "+args[0]))
		return nil
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.requirePage(documentPages...); err != nil {
			return err
		}
		ok, err := confirmAction(docForce, "Delete document %s?", args[0])
		if err != nil || !ok {
			return err
		}

		resp, err := app.client.DeleteDocument(commandContext(cmd), types.ID(args[0]))
		if err != nil {
			return reportFailure("Delete failed", err)
		}
		ui.PrintSuccess("%s", messageOr(resp, "Deleted document "+args[0]))
		return nil
	},
}

func init() {
	docListCmd.Flags().BoolVar(&docCached, "cached", false, "Show the locally cached list")
	docViewCmd.Flags().StringVarP(&docOutput, "output", "o", "", "Write the content to a file")

	docUploadCmd.Flags().StringVar(&docTitleID, "title-id", "", "Document type the file is filed under")
	docUploadCmd.Flags().StringSliceVarP(&docKeywords, "keyword", "k", nil, "Search keyword (repeatable)")

	docManualCmd.Flags().StringVar(&docTitleID, "title-id", "", "Document type the entry is filed under")
	docManualCmd.Flags().StringVar(&docEditTitle, "title", "", "Title")
	docManualCmd.Flags().StringVar(&docEditContent, "content", "", "Document text")
	docManualCmd.Flags().StringSliceVarP(&docKeywords, "keyword", "k", nil, "Search keyword (repeatable)")
	docManualCmd.Flags().StringVarP(&docFile, "file", "f", "", "YAML file with the entry")

	docApproveCmd.Flags().StringVar(&docStatus, "status", "", "Status to set (default approved)")
	docDeclineCmd.Flags().StringVar(&docStatus, "status", "", "Status to set (default declined)")
	docDeclineCmd.Flags().StringVarP(&docRemarks, "remarks", "r", "", "Remarks for the uploader (prompted when empty)")

	docEditCmd.Flags().StringVar(&docEditTitle, "title", "", "New title")
	docEditCmd.Flags().StringVar(&docTitleID, "title-id", "", "New document type")
	docEditCmd.Flags().StringVar(&docEditContent, "content", "", "New text")
	docEditCmd.Flags().StringSliceVarP(&docKeywords, "keyword", "k", nil, "New keywords (repeatable)")
	docEditCmd.Flags().StringVar(&docFile, "file", "", "Replacement file")

	docDeleteCmd.Flags().BoolVarP(&docForce, "force", "f", false, "Skip confirmation prompt")

	documentsCmd.AddCommand(docListCmd, docByTitleCmd, docViewCmd, docUploadCmd, docManualCmd,
		docApproveCmd, docDeclineCmd, docEditCmd, docDeleteCmd)
}

func isTextContent(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/") || strings.Contains(ct, "json")
}

func messageOr(resp *types.MessageResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
