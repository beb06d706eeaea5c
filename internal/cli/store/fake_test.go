package store

import (
	"context"
	"errors"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/types"
)

// fakeAPI is a scripted backend for the stores
type fakeAPI struct {
	loginResp *types.LoginResponse
	loginErr  error

	users    []types.User
	usersErr error

	depts      []types.Department
	deptsErr   error
	deleteErr  error
	deleted    []types.ID
	updateErr  error
	createErr  error
	createUser *types.User

	settings    *types.AppSettings
	settingsErr error
	changeErr   error
	echo        bool

	docs    []types.Document
	docsErr error
}

func (f *fakeAPI) CreateUser(ctx context.Context, in types.SignupRequest) (*types.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createUser, nil
}

func (f *fakeAPI) Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]types.User, error) {
	return f.users, f.usersErr
}

func (f *fakeAPI) CreateDepartment(ctx context.Context, name string) (*types.Department, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &types.Department{ID: "new", DepartmentName: name}, nil
}

func (f *fakeAPI) ListDepartments(ctx context.Context) ([]types.Department, error) {
	return f.depts, f.deptsErr
}

func (f *fakeAPI) DeleteDepartment(ctx context.Context, id types.ID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) UpdateDepartment(ctx context.Context, id types.ID, name string) (*types.Department, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &types.Department{ID: id, DepartmentName: name}, nil
}

func (f *fakeAPI) GetSettings(ctx context.Context) (*types.AppSettings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	s := *f.settings
	return &s, nil
}

func (f *fakeAPI) UploadLogo(ctx context.Context, file client.Attachment) (*types.AppSettings, error) {
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	return &types.AppSettings{LogoPath: "/static/" + file.Name}, nil
}

func (f *fakeAPI) ChangeName(ctx context.Context, name string) (*types.AppSettings, error) {
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	if f.echo {
		return &types.AppSettings{Name: name + " (saved)"}, nil
	}
	return &types.AppSettings{}, nil
}

func (f *fakeAPI) ChangeColor(ctx context.Context, primary, secondary string) (*types.AppSettings, error) {
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	return &types.AppSettings{}, nil
}

func (f *fakeAPI) ListDocuments(ctx context.Context) ([]types.Document, error) {
	return f.docs, f.docsErr
}

var errNetwork = &client.RequestError{Op: "login", Err: errors.New("connection refused")}
