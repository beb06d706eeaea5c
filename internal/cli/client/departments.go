package client

import (
	"context"

	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/coractl/internal/cli/types"
)

// CreateDepartment adds a department
func (c *APIClient) CreateDepartment(ctx context.Context, name string) (*types.Department, error) {
	var dept types.Department
	err := c.do(ctx, &call{
		op:       "create department",
		method:   consts.MethodPost,
		path:     endpointAddDepartment,
		json:     types.DepartmentRequest{DepartmentName: name},
		auth:     true,
		fallback: "Something wrong creating department",
	}, &dept)
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// ListDepartments fetches every department
func (c *APIClient) ListDepartments(ctx context.Context) ([]types.Department, error) {
	var depts []types.Department
	err := c.do(ctx, &call{
		op:       "fetch departments",
		method:   consts.MethodGet,
		path:     endpointDepartments,
		mode:     defaultOnly,
		fallback: "Failed to fetch departments",
	}, &depts)
	return depts, err
}

// DeleteDepartment removes a department
func (c *APIClient) DeleteDepartment(ctx context.Context, id types.ID) error {
	if id.IsZero() {
		return &RequestError{Op: "delete department", Err: errMissingID}
	}
	return c.do(ctx, &call{
		op:       "delete department",
		method:   consts.MethodDelete,
		path:     pathf(endpointDeleteDepartment, id.String()),
		auth:     true,
		fallback: "Failed to delete department",
	}, nil)
}

// UpdateDepartment renames a department
func (c *APIClient) UpdateDepartment(ctx context.Context, id types.ID, name string) (*types.Department, error) {
	if id.IsZero() || name == "" {
		return nil, &RequestError{Op: "update department", Err: errMissingIDOrName}
	}
	var dept types.Department
	err := c.do(ctx, &call{
		op:       "update department",
		method:   consts.MethodPut,
		path:     pathf(endpointUpdateDepartment, id.String()),
		json:     types.DepartmentRequest{DepartmentName: name},
		auth:     true,
		fallback: "Failed to update department",
	}, &dept)
	if err != nil {
		return nil, err
	}
	return &dept, nil
}
