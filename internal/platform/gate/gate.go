// Package gate composes session state, approval classification and the
// static route permission table into the single check evaluated before any
// protected screen renders.
package gate

import (
	"github.com/medrefer/medrefer/internal/domain/account"
	"github.com/medrefer/medrefer/internal/domain/approval"
	"github.com/medrefer/medrefer/internal/platform/session"
)

// Action is the closed set of gate outcomes.
type Action int

const (
	// ActionShowLoading renders a placeholder while a credential refresh is
	// in flight; no access decision is made against a loading session.
	ActionShowLoading Action = iota
	// ActionRedirectLogin sends an unauthenticated session to the login
	// screen. The requested route is not preserved.
	ActionRedirectLogin
	// ActionShowApproval renders the blocking status screen in place of the
	// requested route.
	ActionShowApproval
	// ActionRedirectDefault sends a role-mismatched account to the default
	// landing screen, never to an error page.
	ActionRedirectDefault
	// ActionRender authorizes the requested route.
	ActionRender
)

func (a Action) String() string {
	switch a {
	case ActionShowLoading:
		return "show-loading"
	case ActionRedirectLogin:
		return "redirect-login"
	case ActionShowApproval:
		return "show-approval"
	case ActionRedirectDefault:
		return "redirect-default"
	case ActionRender:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the gate's verdict for one navigation attempt.
type Decision struct {
	Action Action
	// Route is the screen to render or redirect to.
	Route string
	// Classification is set when Action is ActionShowApproval.
	Classification approval.Classification
}

// Gate evaluates navigation attempts against a permission table.
type Gate struct {
	table        *Table
	loginRoute   string
	defaultRoute string
}

func New(table *Table, loginRoute, defaultRoute string) *Gate {
	return &Gate{table: table, loginRoute: loginRoute, defaultRoute: defaultRoute}
}

// Evaluate runs the full check for a requested route. Classification runs on
// every call; an approved outcome is never cached across navigations because
// approval status can change out of band between them. Approval gating takes
// precedence over the permission table: a blocked account never reaches the
// role check even when its role is in the route's allowed set.
func (g *Gate) Evaluate(s session.Snapshot, route string) Decision {
	if s.Loading {
		return Decision{Action: ActionShowLoading, Route: route}
	}

	if !s.Authenticated || s.Account == nil {
		return Decision{Action: ActionRedirectLogin, Route: g.loginRoute}
	}

	cls := approval.Classify(s.Account)
	if !cls.Approved() {
		return Decision{Action: ActionShowApproval, Route: route, Classification: cls}
	}

	if !g.table.Allowed(route, s.Account.Role) {
		return Decision{Action: ActionRedirectDefault, Route: g.defaultRoute}
	}

	return Decision{Action: ActionRender, Route: route}
}

// Table is the static route to allowed-roles mapping. It is design-time
// data: populated once at startup, read-only afterwards.
type Table struct {
	entries map[string][]account.Role
}

func NewTable() *Table {
	return &Table{entries: make(map[string][]account.Role)}
}

// Restrict limits a route to the given roles.
func (t *Table) Restrict(route string, roles ...account.Role) *Table {
	t.entries[route] = roles
	return t
}

// Allowed reports whether the role may enter the route. A route without an
// entry is open to any approved account. A role outside the closed
// enumeration is never granted access by an explicit entry.
func (t *Table) Allowed(route string, role account.Role) bool {
	roles, ok := t.entries[route]
	if !ok {
		return true
	}
	if !role.Valid() {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
