// Package navigation decides which page a session may open. Pages are
// addressed by the web app's paths; guards either allow a page or redirect.
package navigation

import (
	"slices"

	"github.com/lvyanru/coractl/internal/cli/types"
)

// Session is what the guards read from the session store
type Session struct {
	IsAuthenticated bool
	Role            types.Role
}

// Decision is a guard's verdict
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard decides whether s may open a page
type Guard func(s Session) Decision

func allow() Decision { return Decision{Allow: true} }

func redirect(to string) Decision { return Decision{Redirect: to} }

// adminHomes maps each admin role to its dashboard
var adminHomes = map[types.Role]string{
	types.RoleSuperAdmin:    "/superadmin",
	types.RoleCoSuperAdmin:  "/cosuperadmin",
	types.RoleAdminCreator:  "/admincreator",
	types.RoleAdminApprover: "/adminapprover",
}

// Home returns the landing page of a role: its dashboard for admins,
// /user/chat for users and / for anyone else
func Home(role types.Role) string {
	if home, ok := adminHomes[role]; ok {
		return home
	}
	if role == types.RoleUser {
		return "/user/chat"
	}
	return "/"
}

// AdminGuard admits authenticated sessions holding one of roles. Signed-out
// sessions go to /login; other roles go to their own dashboard, or / when
// they have none.
func AdminGuard(roles ...types.Role) Guard {
	return func(s Session) Decision {
		if !s.IsAuthenticated {
			return redirect("/login")
		}
		if slices.Contains(roles, s.Role) {
			return allow()
		}
		if home, ok := adminHomes[s.Role]; ok {
			return redirect(home)
		}
		return redirect("/")
	}
}

// UserGuard admits authenticated sessions with the user role. Signed-out
// sessions go to /; admins go to their dashboard.
func UserGuard(s Session) Decision {
	if !s.IsAuthenticated {
		return redirect("/")
	}
	if s.Role == types.RoleUser {
		return allow()
	}
	return redirect(Home(s.Role))
}
