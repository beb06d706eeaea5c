package navigation

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lvyanru/coractl/internal/cli/types"
)

const maxRedirects = 5

var (
	// ErrRouteNotFound is returned for a path no page is registered at
	ErrRouteNotFound = errors.New("route not found")
	// ErrRedirectLoop is returned when guards keep redirecting
	ErrRedirectLoop = errors.New("too many redirects")
)

// Page names
const (
	PageLanding                 = "landing"
	PageLogin                   = "login"
	PageSuperAdmin              = "superadmin"
	PageSuperAdminUsers         = "superadmin.users"
	PageSuperAdminLogs          = "superadmin.logs"
	PageCoSuperAdmin            = "cosuperadmin"
	PageCoSuperAdminAdmins      = "cosuperadmin.admins"
	PageCoSuperAdminDepartments = "cosuperadmin.departments"
	PageCoSuperAdminThemes      = "cosuperadmin.themes"
	PageCoSuperAdminLogs        = "cosuperadmin.logs"
	PageAdminCreator            = "admincreator"
	PageAdminCreatorDocuments   = "admincreator.documents"
	PageAdminCreatorLogs        = "admincreator.logs"
	PageAdminApprover           = "adminapprover"
	PageAdminApproverDocuments  = "adminapprover.documents"
	PageAdminApproverUpload     = "adminapprover.uploaddocuments"
	PageAdminApproverLogs       = "adminapprover.logs"
	PageUserChat                = "user.chat"
	PageChat                    = "chat"
	PageChatConversation        = "chat.conversation"
	PageResetPassword           = "auth.reset-password"
)

// route is one page of the table
type route struct {
	name  string
	path  string
	guard Guard
	// check redirects on request details the guard cannot see
	check func(q url.Values) (string, bool)
}

func requireToken(q url.Values) (string, bool) {
	if q.Get("token") == "" {
		return "/", false
	}
	return "", true
}

func table() []route {
	superadmin := AdminGuard(types.RoleSuperAdmin)
	cosuperadmin := AdminGuard(types.RoleCoSuperAdmin)
	creator := AdminGuard(types.RoleAdminCreator)
	approver := AdminGuard(types.RoleAdminApprover)

	return []route{
		{name: PageLanding, path: "/"},
		{name: PageLogin, path: "/login"},

		{name: PageSuperAdmin, path: "/superadmin", guard: superadmin},
		{name: PageSuperAdminUsers, path: "/superadmin/users", guard: superadmin},
		{name: PageSuperAdminLogs, path: "/superadmin/logs", guard: superadmin},

		{name: PageCoSuperAdmin, path: "/cosuperadmin", guard: cosuperadmin},
		{name: PageCoSuperAdminAdmins, path: "/cosuperadmin/admins", guard: cosuperadmin},
		{name: PageCoSuperAdminDepartments, path: "/cosuperadmin/departments", guard: cosuperadmin},
		{name: PageCoSuperAdminThemes, path: "/cosuperadmin/themes", guard: cosuperadmin},
		{name: PageCoSuperAdminLogs, path: "/cosuperadmin/logs", guard: cosuperadmin},

		{name: PageAdminCreator, path: "/admincreator", guard: creator},
		{name: PageAdminCreatorDocuments, path: "/admincreator/documents", guard: creator},
		{name: PageAdminCreatorLogs, path: "/admincreator/logs", guard: creator},

		{name: PageAdminApprover, path: "/adminapprover", guard: approver},
		{name: PageAdminApproverDocuments, path: "/adminapprover/documents", guard: approver},
		{name: PageAdminApproverUpload, path: "/adminapprover/uploaddocuments", guard: approver},
		{name: PageAdminApproverLogs, path: "/adminapprover/logs", guard: approver},

		{name: PageUserChat, path: "/user/chat", guard: UserGuard},

		// Public, unlike /user/chat
		{name: PageChat, path: "/chat"},
		{name: PageChatConversation, path: "/chat/{convId}"},

		{name: PageResetPassword, path: "/auth/reset-password", check: requireToken},
	}
}

// Router resolves paths against the page table
type Router struct {
	mux    *mux.Router
	routes map[string]route
}

// NewRouter builds the page table
func NewRouter() *Router {
	r := &Router{mux: mux.NewRouter(), routes: make(map[string]route)}
	for _, rt := range table() {
		r.mux.NewRoute().Name(rt.name).Path(rt.path).Methods(http.MethodGet)
		r.routes[rt.name] = rt
	}
	return r
}

// Resolution is where a navigation ended up
type Resolution struct {
	Page   string
	Path   string
	Params map[string]string
	Query  url.Values
	// Redirects lists every path the guards sent the session through
	Redirects []string
}

// Redirected reports whether the session was sent away from the requested
// path
func (r *Resolution) Redirected() bool {
	return len(r.Redirects) > 0
}

// Navigate opens target for s, following guard redirects
func (r *Router) Navigate(target string, s Session) (*Resolution, error) {
	res := &Resolution{}
	current := target

	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return nil, fmt.Errorf("%w: %s", ErrRedirectLoop, strings.Join(res.Redirects, " -> "))
		}

		rt, params, query, err := r.match(current)
		if err != nil {
			return nil, err
		}

		next := ""
		if rt.guard != nil {
			if d := rt.guard(s); !d.Allow {
				next = d.Redirect
			}
		}
		if next == "" && rt.check != nil {
			if to, ok := rt.check(query); !ok {
				next = to
			}
		}

		if next == "" {
			res.Page = rt.name
			res.Path = current
			res.Params = params
			res.Query = query
			return res, nil
		}
		res.Redirects = append(res.Redirects, next)
		current = next
	}
}

func (r *Router) match(target string) (route, map[string]string, url.Values, error) {
	u, err := url.Parse(target)
	if err != nil {
		return route{}, nil, nil, fmt.Errorf("invalid path %q: %w", target, err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	req := &http.Request{Method: http.MethodGet, URL: u}
	var m mux.RouteMatch
	if !r.mux.Match(req, &m) || m.Route == nil {
		return route{}, nil, nil, fmt.Errorf("%w: %s", ErrRouteNotFound, u.Path)
	}
	return r.routes[m.Route.GetName()], m.Vars, u.Query(), nil
}

// Path returns the path of a named page, filling path parameters from pairs
func (r *Router) Path(page string, pairs ...string) (string, error) {
	rt := r.mux.Get(page)
	if rt == nil {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, page)
	}
	u, err := rt.URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}
