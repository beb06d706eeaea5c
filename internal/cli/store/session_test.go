package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/storage"
	"github.com/lvyanru/coractl/internal/cli/types"
)

func loginOK(role string) *types.LoginResponse {
	return &types.LoginResponse{
		Message: "Login successful",
		User:    types.LoginUser{ID: "42", Name: "Ana", Role: role, Department: "Ops"},
	}
}

func TestSignIn_SuccessSurvivesReload(t *testing.T) {
	roles := []string{"superadmin", "co-superadmin", "admincreator", "adminapprover", "user"}
	for _, role := range roles {
		t.Run(role, func(t *testing.T) {
			st, err := storage.NewFileStorage(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			api := &fakeAPI{loginResp: loginOK(role)}

			s := NewSessionStore(api, st)
			resp, err := s.SignIn(context.Background(), types.Credentials{Email: "ana@example.com", Password: "pw"})
			if err != nil || resp == nil {
				t.Fatalf("SignIn: %v", err)
			}

			got := s.State()
			if !got.IsAuthenticated || string(got.Role) != role {
				t.Fatalf("state after sign in = %+v", got)
			}

			reloaded := NewSessionStore(api, st).State()
			if !reloaded.IsAuthenticated || string(reloaded.Role) != role ||
				reloaded.UserID != "42" || reloaded.UserName != "Ana" || reloaded.Department != "Ops" {
				t.Errorf("reloaded state = %+v", reloaded)
			}
		})
	}
}

func TestSignIn_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unauthorized", &client.APIError{StatusCode: 401, Message: "Invalid credentials"}},
		{"bad request", &client.APIError{StatusCode: 400, Message: "Email is required"}},
		{"network", errNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := storage.NewMemoryStorage()
			s := NewSessionStore(&fakeAPI{loginErr: tt.err}, st)

			resp, err := s.SignIn(context.Background(), types.Credentials{Email: "x", Password: "y"})
			if err == nil || resp != nil {
				t.Fatalf("expected failure, got %v, %v", resp, err)
			}
			got := s.State()
			if got.Err == "" || got.IsAuthenticated || got.IsLoading {
				t.Errorf("state after failed sign in = %+v", got)
			}
			if _, err := st.Get(storage.KeySession); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("session should not be persisted, err = %v", err)
			}
		})
	}
}

func TestSessionRecordFormat(t *testing.T) {
	st := storage.NewMemoryStorage()
	s := NewSessionStore(&fakeAPI{loginResp: loginOK("user")}, st)
	if _, err := s.SignIn(context.Background(), types.Credentials{}); err != nil {
		t.Fatal(err)
	}

	raw, err := st.Get(storage.KeySession)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for _, want := range []string{`"state"`, `"version":0`, `"role":"user"`, `"user":"Ana"`, `"isAuthenticated":true`, `"department":"Ops"`, `"user_id":"42"`} {
		if !strings.Contains(raw, want) {
			t.Errorf("record %s missing %s", raw, want)
		}
	}
}

func TestSignOut_ClearsAllKeys(t *testing.T) {
	st, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st.Set(storage.KeyAccessToken, "a")
	st.Set(storage.KeyRefreshToken, "r")
	st.Set(storage.KeyDocumentStorage, `{"state":{"documents":[]},"version":0}`)
	st.Set("unrelated", "keep")

	s := NewSessionStore(&fakeAPI{loginResp: loginOK("superadmin")}, st)
	if _, err := s.SignIn(context.Background(), types.Credentials{}); err != nil {
		t.Fatal(err)
	}
	if err := s.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	for _, key := range storage.SessionKeys {
		if v, err := st.Get(key); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("key %s still present: %q", key, v)
		}
	}
	if v, _ := st.Get("unrelated"); v != "keep" {
		t.Errorf("unrelated key removed")
	}

	got := s.State()
	if got.IsAuthenticated || got.Role != types.RoleUnknown || got.UserID != "" || got.UserName != "" {
		t.Errorf("state after sign out = %+v", got)
	}
	if NewSessionStore(&fakeAPI{}, st).State().IsAuthenticated {
		t.Error("reloaded store is still authenticated")
	}
}

type failingRemove struct {
	storage.Storage
}

func (failingRemove) Remove(...string) error { return errors.New("disk full") }

func TestSignOut_RemoveFailureKeepsSession(t *testing.T) {
	st := failingRemove{storage.NewMemoryStorage()}
	s := NewSessionStore(&fakeAPI{loginResp: loginOK("user")}, st)
	if _, err := s.SignIn(context.Background(), types.Credentials{}); err != nil {
		t.Fatal(err)
	}

	err := s.SignOut()
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("SignOut error = %v, want disk full", err)
	}
	if !s.State().IsAuthenticated {
		t.Error("in-memory session cleared although storage still holds it")
	}
	if !NewSessionStore(&fakeAPI{}, st).State().IsAuthenticated {
		t.Error("reloaded store lost the session")
	}
}

func TestDeleteDepartment(t *testing.T) {
	initial := []types.Department{
		{ID: "1", DepartmentName: "HR"},
		{ID: "2", DepartmentName: "Ops"},
		{ID: "3", DepartmentName: "Finance"},
	}

	t.Run("success removes only that entry", func(t *testing.T) {
		api := &fakeAPI{depts: slices.Clone(initial)}
		s := NewSessionStore(api, storage.NewMemoryStorage())
		s.GetDepartments(context.Background())

		if err := s.DeleteDepartment(context.Background(), "2"); err != nil {
			t.Fatalf("DeleteDepartment: %v", err)
		}
		want := []types.Department{initial[0], initial[2]}
		if got := s.State().Departments; !slices.Equal(got, want) {
			t.Errorf("departments = %+v, want %+v", got, want)
		}
		if len(api.deleted) != 1 || api.deleted[0] != "2" {
			t.Errorf("backend deletes = %v", api.deleted)
		}
	})

	t.Run("failure leaves list and propagates", func(t *testing.T) {
		apiErr := &client.APIError{StatusCode: 409, Message: "Department has users"}
		api := &fakeAPI{depts: slices.Clone(initial), deleteErr: apiErr}
		s := NewSessionStore(api, storage.NewMemoryStorage())
		s.GetDepartments(context.Background())

		err := s.DeleteDepartment(context.Background(), "2")
		if !errors.Is(err, apiErr) {
			t.Fatalf("err = %v, want %v", err, apiErr)
		}
		if got := s.State().Departments; !slices.Equal(got, initial) {
			t.Errorf("departments changed: %+v", got)
		}
		if s.State().Err != "Department has users" {
			t.Errorf("Err = %q", s.State().Err)
		}
	})
}

func TestSilentFailures(t *testing.T) {
	api := &fakeAPI{
		usersErr: &client.APIError{StatusCode: 500, Message: "Failed to fetch users"},
		deptsErr: &client.APIError{StatusCode: 500, Message: "Failed to fetch departments"},
		depts:    nil,
	}
	s := NewSessionStore(api, storage.NewMemoryStorage())

	s.FetchUsers(context.Background())
	if got := s.State().Err; got != "Failed to fetch users" {
		t.Errorf("Err after FetchUsers = %q", got)
	}

	s.GetDepartments(context.Background())
	if got := s.State().Err; got != "Failed to fetch departments" {
		t.Errorf("Err after GetDepartments = %q", got)
	}
}

func TestGetDepartments_Replaces(t *testing.T) {
	api := &fakeAPI{depts: []types.Department{{ID: "1", DepartmentName: "HR"}}}
	s := NewSessionStore(api, storage.NewMemoryStorage())
	s.GetDepartments(context.Background())

	api.depts = []types.Department{{ID: "9", DepartmentName: "Legal"}}
	s.GetDepartments(context.Background())

	got := s.State().Departments
	if len(got) != 1 || got[0].ID != "9" {
		t.Errorf("departments = %+v", got)
	}
}

func TestUpdateDepartment(t *testing.T) {
	api := &fakeAPI{depts: []types.Department{{ID: "1", DepartmentName: "HR"}, {ID: "2", DepartmentName: "Ops"}}}
	s := NewSessionStore(api, storage.NewMemoryStorage())
	s.GetDepartments(context.Background())

	if err := s.UpdateDepartment(context.Background(), "2", "Operations"); err != nil {
		t.Fatalf("UpdateDepartment: %v", err)
	}
	if got := s.State().Departments[1].DepartmentName; got != "Operations" {
		t.Errorf("name = %q", got)
	}

	api.updateErr = &client.APIError{StatusCode: 400, Message: "Name taken"}
	if err := s.UpdateDepartment(context.Background(), "1", "Ops"); err == nil {
		t.Fatal("expected error")
	}
	if got := s.State().Departments[0].DepartmentName; got != "HR" {
		t.Errorf("name changed on failure: %q", got)
	}
}

func TestSignUpAndAddDepartment_Rethrow(t *testing.T) {
	apiErr := &client.APIError{StatusCode: 422, Message: "field required, too short"}
	s := NewSessionStore(&fakeAPI{createErr: apiErr}, storage.NewMemoryStorage())

	if _, err := s.SignUp(context.Background(), types.SignupRequest{}); !errors.Is(err, apiErr) {
		t.Errorf("SignUp err = %v", err)
	}
	if got := s.State(); got.Err != "field required, too short" || got.IsLoading {
		t.Errorf("state = %+v", got)
	}

	if _, err := s.AddDepartment(context.Background(), "Ops"); !errors.Is(err, apiErr) {
		t.Errorf("AddDepartment err = %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	s := NewSessionStore(&fakeAPI{loginResp: loginOK("user")}, storage.NewMemoryStorage())

	var seen []State
	cancel := s.Subscribe(func(st State) { seen = append(seen, st) })
	if _, err := s.SignIn(context.Background(), types.Credentials{}); err != nil {
		t.Fatal(err)
	}
	if len(seen) == 0 || !seen[len(seen)-1].IsAuthenticated {
		t.Fatalf("subscriber did not see sign in: %+v", seen)
	}

	cancel()
	n := len(seen)
	s.SignOut()
	if len(seen) != n {
		t.Error("subscriber called after cancel")
	}
}

func TestHydrate_CorruptRecord(t *testing.T) {
	st := storage.NewMemoryStorage()
	st.Set(storage.KeySession, "{not json")

	got := NewSessionStore(&fakeAPI{}, st).State()
	if got.IsAuthenticated || got.Role != types.RoleUnknown {
		t.Errorf("state = %+v", got)
	}
}
