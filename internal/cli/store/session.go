package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bytedance/sonic"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/storage"
	"github.com/lvyanru/coractl/internal/cli/types"
)

// SessionAPI is the slice of the backend the session store calls
type SessionAPI interface {
	CreateUser(ctx context.Context, in types.SignupRequest) (*types.User, error)
	Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error)
	ListUsers(ctx context.Context) ([]types.User, error)
	CreateDepartment(ctx context.Context, name string) (*types.Department, error)
	ListDepartments(ctx context.Context) ([]types.Department, error)
	DeleteDepartment(ctx context.Context, id types.ID) error
	UpdateDepartment(ctx context.Context, id types.ID, name string) (*types.Department, error)
}

// State is a snapshot of the session store
type State struct {
	IsAuthenticated bool
	Role            types.Role
	UserID          types.ID
	UserName        string
	Department      string

	Users       []types.User
	Departments []types.Department
	IsLoading   bool
	Err         string
}

// sessionRecord is the persisted subset of State
type sessionRecord struct {
	Role            *string   `json:"role"`
	User            *string   `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Department      *string   `json:"department"`
	UserID          *types.ID `json:"user_id"`
}

func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func recordOf(s State) sessionRecord {
	return sessionRecord{
		Role:            optional(string(s.Role)),
		User:            optional(s.UserName),
		IsAuthenticated: s.IsAuthenticated,
		Department:      optional(s.Department),
		UserID:          optional(s.UserID),
	}
}

// persistedFields is the comparable form of the persisted subset
func persistedFields(s State) [5]any {
	return [5]any{s.Role, s.UserName, s.IsAuthenticated, s.Department, s.UserID}
}

type (
	requestStarted   struct{ loading bool }
	requestSucceeded struct{}
	requestFailed    struct{ err string }
	sessionHydrated  struct{ rec sessionRecord }
	signedIn         struct{ user types.LoginUser }
	signedOut        struct{}
	usersLoaded      struct{ users []types.User }
	deptsLoaded      struct{ depts []types.Department }
	deptDeleted      struct{ id types.ID }
	deptRenamed      struct{ id types.ID; name string }
)

func (requestStarted) actionName() string   { return "request_started" }
func (requestSucceeded) actionName() string { return "request_succeeded" }
func (requestFailed) actionName() string    { return "request_failed" }
func (sessionHydrated) actionName() string  { return "hydrated" }
func (signedIn) actionName() string         { return "signed_in" }
func (signedOut) actionName() string        { return "signed_out" }
func (usersLoaded) actionName() string      { return "users_loaded" }
func (deptsLoaded) actionName() string      { return "departments_loaded" }
func (deptDeleted) actionName() string      { return "department_deleted" }
func (deptRenamed) actionName() string      { return "department_renamed" }

func reduceSession(s State, a action) State {
	switch a := a.(type) {
	case requestStarted:
		s.IsLoading = a.loading || s.IsLoading
		s.Err = ""
	case requestSucceeded:
		s.IsLoading = false
		s.Err = ""
	case requestFailed:
		s.IsLoading = false
		s.Err = a.err
	case sessionHydrated:
		s.Role = types.Role(deref(a.rec.Role))
		s.UserName = deref(a.rec.User)
		s.IsAuthenticated = a.rec.IsAuthenticated
		s.Department = deref(a.rec.Department)
		s.UserID = deref(a.rec.UserID)
	case signedIn:
		s.IsLoading = false
		s.Err = ""
		s.IsAuthenticated = true
		s.Role = types.Role(a.user.Role)
		s.UserName = a.user.Name
		s.UserID = a.user.ID
		s.Department = a.user.Department
	case signedOut:
		s.IsAuthenticated = false
		s.Role = types.RoleUnknown
		s.UserName = ""
		s.UserID = ""
		s.Department = ""
	case usersLoaded:
		s.Users = a.users
	case deptsLoaded:
		s.Departments = a.depts
		s.Err = ""
	case deptDeleted:
		s.Departments = slices.DeleteFunc(s.Departments, func(d types.Department) bool {
			return d.ID == a.id
		})
		s.Err = ""
	case deptRenamed:
		for i := range s.Departments {
			if s.Departments[i].ID == a.id {
				s.Departments[i].DepartmentName = a.name
			}
		}
		s.IsLoading = false
		s.Err = ""
	}
	return s
}

func cloneState(s State) State {
	s.Users = slices.Clone(s.Users)
	s.Departments = slices.Clone(s.Departments)
	return s
}

// SessionStore is the single source of truth for who is signed in and with
// what role. It mirrors the department list for the admin pages.
type SessionStore struct {
	api     SessionAPI
	storage storage.Storage
	m       *machine[State]
}

// NewSessionStore creates the store and hydrates the persisted session. A
// missing or unreadable record starts an empty session.
func NewSessionStore(api SessionAPI, st storage.Storage) *SessionStore {
	s := &SessionStore{
		api:     api,
		storage: st,
		m:       newMachine(State{}, reduceSession, cloneState),
	}

	raw, err := st.Get(storage.KeySession)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		slog.Warn("failed to read session", "error", err)
	default:
		var env persisted[sessionRecord]
		if err := sonic.UnmarshalString(raw, &env); err != nil {
			slog.Warn("ignoring unreadable session record", "error", err)
			break
		}
		_ = s.m.dispatch(sessionHydrated{rec: env.State}, nil)
	}
	return s
}

// State returns a snapshot of the current state
func (s *SessionStore) State() State {
	return s.m.snapshot()
}

// Subscribe registers fn for every state change and returns its cancel func
func (s *SessionStore) Subscribe(fn func(State)) func() {
	return s.m.subscribe(fn)
}

// dispatch applies a and writes the persisted subset back when it changed
func (s *SessionStore) dispatch(a action) {
	err := s.m.dispatch(a, func(prev, next State) error {
		if persistedFields(prev) == persistedFields(next) {
			return nil
		}
		return s.persist(next)
	})
	if err != nil {
		slog.Warn("failed to persist session", "action", a.actionName(), "error", err)
	}
}

func (s *SessionStore) persist(st State) error {
	rec := recordOf(st)
	data, err := sonic.MarshalString(persisted[sessionRecord]{State: rec})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.storage.Set(storage.KeySession, data)
}

// SignUp registers a user. Errors are recorded and returned.
func (s *SessionStore) SignUp(ctx context.Context, in types.SignupRequest) (*types.User, error) {
	s.dispatch(requestStarted{loading: true})
	user, err := s.api.CreateUser(ctx, in)
	if err != nil {
		s.dispatch(requestFailed{err: errMessage(err, "Signup failed")})
		return nil, err
	}
	s.dispatch(requestSucceeded{})
	return user, nil
}

// SignIn logs in and records the session. Failure leaves the session signed
// out, records the message in Err and returns the error.
func (s *SessionStore) SignIn(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error) {
	s.dispatch(requestStarted{loading: true})
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		s.dispatch(requestFailed{err: errMessage(err, "login failed")})
		return nil, err
	}
	s.dispatch(signedIn{user: resp.User})
	return resp, nil
}

// FetchUsers replaces the user list. Failures only land in Err.
func (s *SessionStore) FetchUsers(ctx context.Context) {
	s.dispatch(requestStarted{})
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		slog.WarnContext(ctx, "fetch users failed", "action", "fetch_users", "error", err)
		s.dispatch(requestFailed{err: "Failed to fetch users"})
		return
	}
	s.dispatch(usersLoaded{users: users})
}

// AddDepartment creates a department. Errors are recorded and returned.
func (s *SessionStore) AddDepartment(ctx context.Context, name string) (*types.Department, error) {
	s.dispatch(requestStarted{loading: true})
	dept, err := s.api.CreateDepartment(ctx, name)
	if err != nil {
		s.dispatch(requestFailed{err: errMessage(err, "Error creating department")})
		return nil, err
	}
	s.dispatch(requestSucceeded{})
	return dept, nil
}

// GetDepartments replaces the department list. Failures only land in Err.
func (s *SessionStore) GetDepartments(ctx context.Context) {
	s.dispatch(requestStarted{})
	depts, err := s.api.ListDepartments(ctx)
	if err != nil {
		slog.WarnContext(ctx, "fetch departments failed", "action", "get_departments", "error", err)
		s.dispatch(requestFailed{err: errMessage(err, "Failed to fetch departments")})
		return
	}
	s.dispatch(deptsLoaded{depts: depts})
}

// DeleteDepartment deletes on the backend, then drops exactly that entry from
// the local list. On failure the list is untouched and the error returned.
func (s *SessionStore) DeleteDepartment(ctx context.Context, id types.ID) error {
	if err := s.api.DeleteDepartment(ctx, id); err != nil {
		s.dispatch(requestFailed{err: errMessage(err, "Failed to delete department")})
		return err
	}
	s.dispatch(deptDeleted{id: id})
	return nil
}

// UpdateDepartment renames a department and the local entry after the
// backend confirms
func (s *SessionStore) UpdateDepartment(ctx context.Context, id types.ID, name string) error {
	s.dispatch(requestStarted{loading: true})
	if _, err := s.api.UpdateDepartment(ctx, id, name); err != nil {
		s.dispatch(requestFailed{err: errMessage(err, "Failed to update department")})
		return err
	}
	s.dispatch(deptRenamed{id: id, name: name})
	return nil
}

// SignOut removes every persisted session key in one storage operation, then
// clears the session. When the removal fails the session is left as it was.
func (s *SessionStore) SignOut() error {
	if err := s.storage.Remove(storage.SessionKeys...); err != nil {
		return fmt.Errorf("failed to clear session storage: %w", err)
	}
	return s.m.dispatch(signedOut{}, nil)
}

func errMessage(err error, fallback string) string {
	if msg := client.UserMessage(err); msg != "" {
		return msg
	}
	return fallback
}
