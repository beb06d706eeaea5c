package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lvyanru/coractl/internal/cli/storage"
	"github.com/lvyanru/coractl/internal/cli/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*APIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewAPIClient(srv.URL, append([]Option{WithTimeout(5 * time.Second)}, opts...)...)
	if err != nil {
		t.Fatalf("NewAPIClient: %v", err)
	}
	return c, srv
}

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"localhost:8000", "http://localhost:8000", false},
		{"https://api.example.com/", "https://api.example.com", false},
		{"https://example.com/cora/api/", "https://example.com/cora/api", false},
		{"ftp://example.com", "", true},
		{"http://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeServerURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogin_StoresTokensAndSendsCookies(t *testing.T) {
	store := storage.NewMemoryStorage()
	var gotCookies map[string]string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var creds types.Credentials
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email != "ana@example.com" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "cookie-access"})
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"message":"ok","refresh_token":"body-refresh","access_token":"body-access",
				"user":{"id":7,"name":"Ana","role":"co-superadmin","department":"Ops"}}`)
		case "/users":
			gotCookies = map[string]string{}
			for _, ck := range r.Cookies() {
				gotCookies[ck.Name] = ck.Value
			}
			io.WriteString(w, `[{"id":"u1","name":"Ana","email":"ana@example.com","role":"user"}]`)
		}
	}, WithStorage(store))

	resp, err := c.Login(context.Background(), types.Credentials{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != "7" || resp.User.Role != "co-superadmin" {
		t.Errorf("unexpected user %+v", resp.User)
	}

	if v, _ := store.Get(storage.KeyAccessToken); v != "cookie-access" {
		t.Errorf("access token = %q, want cookie value", v)
	}
	if v, _ := store.Get(storage.KeyRefreshToken); v != "body-refresh" {
		t.Errorf("refresh token = %q, want body value", v)
	}

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Errorf("unexpected users %+v", users)
	}
	if gotCookies["access_token"] != "cookie-access" || gotCookies["refresh_token"] != "body-refresh" {
		t.Errorf("credential cookies not sent: %v", gotCookies)
	}
}

func TestErrorExtraction(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		call     func(c *APIClient) error
		wantMsg  string
		wantCode int
	}{
		{
			name:   "detail string",
			status: http.StatusUnauthorized,
			body:   `{"detail":"Invalid credentials"}`,
			call: func(c *APIClient) error {
				_, err := c.Login(context.Background(), types.Credentials{Email: "x", Password: "y"})
				return err
			},
			wantMsg:  "Invalid credentials",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "detail array joined",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail":[{"msg":"field required","loc":["body","email"]},{"msg":"too short"}]}`,
			call: func(c *APIClient) error {
				_, err := c.CreateUser(context.Background(), types.SignupRequest{Name: "a"})
				return err
			},
			wantMsg:  "field required, too short",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "non json falls back to default",
			status: http.StatusInternalServerError,
			body:   `<html>oops</html>`,
			call: func(c *APIClient) error {
				_, err := c.CreateDepartment(context.Background(), "Ops")
				return err
			},
			wantMsg:  "Something wrong creating department",
			wantCode: http.StatusInternalServerError,
		},
		{
			name:   "default only ignores detail",
			status: http.StatusForbidden,
			body:   `{"detail":"not allowed"}`,
			call: func(c *APIClient) error {
				_, err := c.ListUsers(context.Background())
				return err
			},
			wantMsg:  "Failed to fetch users",
			wantCode: http.StatusForbidden,
		},
		{
			name:   "body text",
			status: http.StatusBadRequest,
			body:   `{"detail":"email taken"}`,
			call: func(c *APIClient) error {
				return c.UpdateUser(context.Background(), "3", types.UserUpdate{Email: "b"})
			},
			wantMsg:  `{"detail":"email taken"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "empty body text uses default",
			status: http.StatusBadRequest,
			body:   ``,
			call: func(c *APIClient) error {
				_, err := c.CreateConversation(context.Background(), "t")
				return err
			},
			wantMsg:  "Error creating conversation",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := tt.call(c)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if !IsStatus(err, tt.wantCode) {
				t.Errorf("IsStatus(%d) = false, status %d", tt.wantCode, apiErr.StatusCode)
			}
			if UserMessage(err) != tt.wantMsg {
				t.Errorf("UserMessage = %q", UserMessage(err))
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewAPIClient(url, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewAPIClient: %v", err)
	}

	_, err = c.ListUsers(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T %v", err, err)
	}
	if got := UserMessage(err); got != "failed to fetch users" {
		t.Errorf("UserMessage = %q", got)
	}
	if !strings.HasPrefix(err.Error(), "failed to fetch users: ") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSlowResponseTimesOut(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
		io.WriteString(w, `[]`)
	}, WithTimeout(200*time.Millisecond))

	_, err := c.ListUsers(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T %v", err, err)
	}
}

func TestDepartments_RequestShape(t *testing.T) {
	var method, path, body string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		io.WriteString(w, `{"id":4,"department_name":"Finance"}`)
	})

	dept, err := c.UpdateDepartment(context.Background(), "4", "Finance")
	if err != nil {
		t.Fatalf("UpdateDepartment: %v", err)
	}
	if method != http.MethodPut || path != "/update-department/4" {
		t.Errorf("got %s %s", method, path)
	}
	if body != `{"department_name":"Finance"}` {
		t.Errorf("body = %s", body)
	}
	if dept.DepartmentName != "Finance" {
		t.Errorf("unexpected department %+v", dept)
	}

	if err := c.DeleteDepartment(context.Background(), ""); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestAnalytics_QueryParams(t *testing.T) {
	var query map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		switch r.URL.Path {
		case "/top-titles":
			io.WriteString(w, `[{"title":"HR Policy","count":12}]`)
		case "/satisfaction":
			io.WriteString(w, `{"average":4.5,"total_reviews":2}`)
		}
	})

	start := time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("X", 3600))
	end := start.Add(24 * time.Hour)
	rows, err := c.TopTitles(context.Background(), start, end, 0)
	if err != nil {
		t.Fatalf("TopTitles: %v", err)
	}
	if len(rows) != 1 || rows[0].Count != 12 {
		t.Errorf("rows = %+v", rows)
	}
	if query["limit"] != "5" || query["start_date"] != "2026-01-02T02:04:05.006Z" {
		t.Errorf("query = %v", query)
	}

	if _, err := c.Satisfaction(context.Background(), time.Time{}, end); err != nil {
		t.Fatalf("Satisfaction: %v", err)
	}
	if _, ok := query["start_date"]; ok {
		t.Errorf("start_date should be omitted, query = %v", query)
	}
	if _, ok := query["end_date"]; !ok {
		t.Errorf("end_date missing, query = %v", query)
	}
}
