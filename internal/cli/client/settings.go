package client

import (
	"context"

	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/coractl/internal/cli/types"
)

// GetSettings fetches the organisation branding
func (c *APIClient) GetSettings(ctx context.Context) (*types.AppSettings, error) {
	var out types.AppSettings
	err := c.do(ctx, &call{
		op:       "fetch settings",
		method:   consts.MethodGet,
		path:     endpointGetSettings,
		mode:     defaultOnly,
		fallback: "Failed to fetch settings",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadLogo replaces the organisation logo. The response carries the new
// logo_path.
func (c *APIClient) UploadLogo(ctx context.Context, file Attachment) (*types.AppSettings, error) {
	var out types.AppSettings
	err := c.do(ctx, &call{
		op:       "upload logo",
		method:   consts.MethodPost,
		path:     endpointUploadLogo,
		form:     (&formBody{}).file("file", file),
		mode:     defaultOnly,
		fallback: "Failed to upload logo",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeName renames the organisation
func (c *APIClient) ChangeName(ctx context.Context, name string) (*types.AppSettings, error) {
	var out types.AppSettings
	err := c.do(ctx, &call{
		op:       "change name",
		method:   consts.MethodPost,
		path:     endpointChangeName,
		json:     types.ChangeNameRequest{Name: name},
		mode:     defaultOnly,
		fallback: "Failed to change name",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeColor sets the primary and secondary brand colors
func (c *APIClient) ChangeColor(ctx context.Context, primary, secondary string) (*types.AppSettings, error) {
	var out types.AppSettings
	err := c.do(ctx, &call{
		op:       "change colors",
		method:   consts.MethodPost,
		path:     endpointChangeColor,
		json:     types.ChangeColorRequest{PrimaryColor: primary, SecondaryColor: secondary},
		mode:     defaultOnly,
		fallback: "Failed to change colors",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
