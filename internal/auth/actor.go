// Package auth resolves who is calling and what they may do.
//
// Callers present a signed actor token (see JWTManager). The token names an actor and a
// role; capabilities are derived from the role on every check, never stored in the token,
// so changing the role table takes effect without reissuing tokens.
package auth

import (
	"fmt"
	"strings"

	"github.com/mmynk/estateledger/internal/errs"
)

// Role is an estate back-office role.
type Role string

const (
	RoleResident   Role = "resident"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Capability names a privileged permission.
type Capability string

const (
	CapReconcile      Capability = "RECONCILE"
	CapReversePosting Capability = "REVERSE_POSTING"
	CapLockPeriod     Capability = "LOCK_PERIOD"
	CapUnlockPeriod   Capability = "UNLOCK_PERIOD"
	CapManageExpenses Capability = "MANAGE_EXPENSES"
	CapImportFeeds    Capability = "IMPORT_FEEDS"
	CapSubmitPayIn    Capability = "SUBMIT_PAYIN"
)

var roleCapabilities = map[Role][]Capability{
	RoleResident: {CapSubmitPayIn},
	RoleStaff:    {CapSubmitPayIn, CapReconcile, CapManageExpenses},
	RoleAdmin: {
		CapSubmitPayIn, CapReconcile, CapManageExpenses,
		CapReversePosting, CapLockPeriod, CapImportFeeds,
	},
	// Only superadmins can unlock a period.
	RoleSuperadmin: {
		CapSubmitPayIn, CapReconcile, CapManageExpenses,
		CapReversePosting, CapLockPeriod, CapImportFeeds, CapUnlockPeriod,
	},
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleCapabilities[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Capabilities returns the capabilities granted to a role.
func (r Role) Capabilities() []Capability {
	return append([]Capability(nil), roleCapabilities[r]...)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

// HasCapability reports whether the actor's role grants c.
func (a Actor) HasCapability(c Capability) bool {
	for _, have := range roleCapabilities[a.Role] {
		if have == c {
			return true
		}
	}
	return false
}

// Require returns an Authorization error unless the actor holds c.
func (a Actor) Require(c Capability) error {
	if a.ID == "" {
		return errs.Unauthorized("no actor on request")
	}
	if !a.HasCapability(c) {
		return errs.Unauthorized("actor %s (%s) lacks %s", a.ID, a.Role, c).With("capability", string(c))
	}
	return nil
}
