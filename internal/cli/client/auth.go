package client

import (
	"context"

	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/coractl/internal/cli/storage"
	"github.com/lvyanru/coractl/internal/cli/types"
)

// CreateUser registers a new account
func (c *APIClient) CreateUser(ctx context.Context, in types.SignupRequest) (*types.User, error) {
	var user types.User
	err := c.do(ctx, &call{
		op:       "create user",
		method:   consts.MethodPost,
		path:     endpointSignUp,
		json:     in,
		fallback: "Failed to create user",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login performs user login. The token pair is taken from Set-Cookie headers
// when present, else from the body, and kept for later credentialed calls.
func (c *APIClient) Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error) {
	var fromCookies map[string]string
	var loginResp types.LoginResponse
	err := c.do(ctx, &call{
		op:       "login",
		method:   consts.MethodPost,
		path:     endpointLogin,
		json:     creds,
		auth:     true,
		fallback: "Something unexpected happened, please try again",
		inspect: func(resp *protocol.Response) {
			fromCookies = cookieTokens(resp)
		},
	}, &loginResp)
	if err != nil {
		return nil, err
	}

	tokens := map[string]string{
		storage.KeyAccessToken:  loginResp.AccessToken,
		storage.KeyRefreshToken: loginResp.RefreshToken,
	}
	for k, v := range fromCookies {
		tokens[k] = v
	}
	c.saveTokens(tokens)

	return &loginResp, nil
}

// ListUsers fetches every user account
func (c *APIClient) ListUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	err := c.do(ctx, &call{
		op:       "fetch users",
		method:   consts.MethodGet,
		path:     endpointUsers,
		auth:     true,
		mode:     defaultOnly,
		fallback: "Failed to fetch users",
	}, &users)
	return users, err
}

// UpdateUser edits a user account. The backend's error body is surfaced as is.
func (c *APIClient) UpdateUser(ctx context.Context, id types.ID, in types.UserUpdate) error {
	return c.do(ctx, &call{
		op:       "update user",
		method:   consts.MethodPut,
		path:     pathf(endpointUpdateUser, id.String()),
		json:     in,
		auth:     true,
		mode:     bodyText,
		fallback: "Failed to update user",
	}, nil)
}

// DeleteUser removes a user account
func (c *APIClient) DeleteUser(ctx context.Context, id types.ID) error {
	return c.do(ctx, &call{
		op:       "delete user",
		method:   consts.MethodDelete,
		path:     pathf(endpointDeleteUser, id.String()),
		auth:     true,
		fallback: "Failed to delete user",
	}, nil)
}

// ChangePassword completes a password reset with the emailed token and OTP
func (c *APIClient) ChangePassword(ctx context.Context, in types.ChangePasswordRequest) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "change password",
		method:   consts.MethodPost,
		path:     endpointChangePassword,
		json:     in,
		fallback: "Failed to change password",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset asks the backend to email a reset link
func (c *APIClient) RequestPasswordReset(ctx context.Context, email string) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "request password reset",
		method:   consts.MethodPost,
		path:     endpointRequestReset,
		json:     map[string]string{"email": email},
		fallback: "Failed to send password reset email",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordOTP asks the backend to email a one-time code for the reset
func (c *APIClient) RequestPasswordOTP(ctx context.Context, token, password string) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "request password otp",
		method:   consts.MethodPost,
		path:     endpointRequestPasswordOTP,
		json:     map[string]string{"token": token, "password": password},
		fallback: "Failed to send OTP",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
