package navigation

import (
	"errors"

	"github.com/lvyanru/coractl/internal/cli/types"
)

// ErrUnauthorizedRole is returned when a login form has no page for a role
var ErrUnauthorizedRole = errors.New("Unauthorized role or unknown user.")

// Entry is the login form a session signed in through
type Entry int

const (
	// EntryAdmin is the /login form
	EntryAdmin Entry = iota
	// EntryLanding is the landing page form
	EntryLanding
)

// PostLoginRoute returns where a fresh session goes after signing in. The
// admin form sends users to /users, which no page serves; the landing form
// admits users only.
func PostLoginRoute(entry Entry, role types.Role) (string, error) {
	if entry == EntryLanding {
		if role == types.RoleUser {
			return "/user/chat", nil
		}
		return "", ErrUnauthorizedRole
	}

	if home, ok := adminHomes[role]; ok {
		return home, nil
	}
	if role == types.RoleUser {
		return "/users", nil
	}
	return "", ErrUnauthorizedRole
}
