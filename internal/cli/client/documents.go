package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/coractl/internal/cli/types"
)

// DocumentUpload is a file filed under a document type
type DocumentUpload struct {
	TitleID  types.ID
	Keywords []string
	File     Attachment
}

// DocumentBlob is the raw content of a stored document
type DocumentBlob struct {
	Data        []byte
	ContentType string
}

// UploadDocument sends a document file for approval
func (c *APIClient) UploadDocument(ctx context.Context, in DocumentUpload) (*types.MessageResponse, error) {
	form := (&formBody{}).
		field("title_id", in.TitleID.String()).
		field("keywords", strings.Join(in.Keywords, ",")).
		file("file", in.File)

	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "upload document",
		method:   consts.MethodPost,
		path:     endpointUpload,
		form:     form,
		auth:     true,
		fallback: "Failed to upload document",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitManualEntry files a typed-in document
func (c *APIClient) SubmitManualEntry(ctx context.Context, in types.ManualEntry) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "submit manual entry",
		method:   consts.MethodPost,
		path:     endpointManualEntry,
		json:     in,
		auth:     true,
		fallback: "Failed to submit manual document",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocuments fetches every document visible to the signed-in user
func (c *APIClient) ListDocuments(ctx context.Context) ([]types.Document, error) {
	var docs []types.Document
	err := c.do(ctx, &call{
		op:       "fetch documents",
		method:   consts.MethodGet,
		path:     endpointDocuments,
		auth:     true,
		mode:     defaultOnly,
		fallback: "Failed to fetch documents",
	}, &docs)
	return docs, err
}

// ListDocumentsByTitle fetches the documents filed under one document type
func (c *APIClient) ListDocumentsByTitle(ctx context.Context, title string) ([]types.Document, error) {
	var docs []types.Document
	err := c.do(ctx, &call{
		op:       "fetch documents by title",
		method:   consts.MethodGet,
		path:     pathf(endpointDocumentsByTitle, title),
		auth:     true,
		fallback: "Failed to fetch documents by title",
	}, &docs)
	return docs, err
}

// ViewDocument downloads a document's stored file
func (c *APIClient) ViewDocument(ctx context.Context, id types.ID) (*DocumentBlob, error) {
	body, contentType, err := c.send(ctx, &call{
		op:       "view document",
		method:   consts.MethodGet,
		path:     pathf(endpointViewDocument, id.String()),
		auth:     true,
		fallback: "Failed to view document",
	})
	if err != nil {
		return nil, err
	}
	return &DocumentBlob{Data: body, ContentType: contentType}, nil
}

// ApproveDocument sets an approval status on a document
func (c *APIClient) ApproveDocument(ctx context.Context, id types.ID, status string) (*types.MessageResponse, error) {
	return c.setDocumentStatus(ctx, "approve document", endpointApproveDocument, id,
		types.DocumentStatusRequest{Status: status}, "Approval failed")
}

// DeclineDocument rejects a document with remarks for the uploader
func (c *APIClient) DeclineDocument(ctx context.Context, id types.ID, status, remarks string) (*types.MessageResponse, error) {
	return c.setDocumentStatus(ctx, "decline document", endpointDeclineDocument, id,
		types.DocumentStatusRequest{Status: status, Remarks: strings.TrimSpace(remarks)}, "Failed to decline document")
}

func (c *APIClient) setDocumentStatus(ctx context.Context, op, endpoint string, id types.ID, in types.DocumentStatusRequest, fallback string) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       op,
		method:   consts.MethodPost,
		path:     pathf(endpoint, id.String()),
		json:     in,
		auth:     true,
		fallback: fallback,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// EditDocument updates a document. The changes travel base64-encoded in the
// payload_base64 field, optionally with a replacement file.
func (c *APIClient) EditDocument(ctx context.Context, id types.ID, edit types.DocumentEdit, file *Attachment) (*types.MessageResponse, error) {
	payload, err := sonic.Marshal(edit)
	if err != nil {
		return nil, &RequestError{Op: "update document", Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	form := (&formBody{}).field("payload_base64", base64.StdEncoding.EncodeToString(payload))
	if file != nil {
		form.file("file", *file)
	}

	var out types.MessageResponse
	err = c.do(ctx, &call{
		op:       "update document",
		method:   consts.MethodPost,
		path:     pathf(endpointEditDocument, id.String()),
		form:     form,
		auth:     true,
		fallback: "Failed to update document.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a document
func (c *APIClient) DeleteDocument(ctx context.Context, id types.ID) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "delete document",
		method:   consts.MethodPost,
		path:     pathf(endpointDeleteDocument, id.String()),
		auth:     true,
		fallback: "Failed to delete document.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDocumentInfo adds a document type
func (c *APIClient) CreateDocumentInfo(ctx context.Context, in types.DocumentInfoRequest) (*types.DocumentInfo, error) {
	var out types.DocumentInfo
	err := c.do(ctx, &call{
		op:       "create document info",
		method:   consts.MethodPost,
		path:     endpointAddDocumentInfo,
		json:     in,
		auth:     true,
		fallback: "Something went wrong in creating Document Information",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocumentInfo fetches every document type
func (c *APIClient) ListDocumentInfo(ctx context.Context) ([]types.DocumentInfo, error) {
	var out []types.DocumentInfo
	err := c.do(ctx, &call{
		op:       "fetch document info",
		method:   consts.MethodGet,
		path:     endpointDocumentInfo,
		auth:     true,
		mode:     defaultOnly,
		fallback: "Error fetching document Info",
	}, &out)
	return out, err
}

// DeleteDocumentInfo removes a document type. The backend exposes this as PUT.
func (c *APIClient) DeleteDocumentInfo(ctx context.Context, id types.ID) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "delete document info",
		method:   consts.MethodPut,
		path:     pathf(endpointDeleteDocInfo, id.String()),
		auth:     true,
		fallback: "Failed to delete document information.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
