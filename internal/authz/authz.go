// Package authz decides which role may view which page and perform which
// action. Page policies are derived from the navigation menu so the sidebar
// and the route guard cannot disagree.
package authz

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/frahmantamala/sakti/internal/navigation"
	"github.com/frahmantamala/sakti/internal/role"
)

//go:embed model.conf
var casbinModelContent string

const (
	ActView   = "view"
	ActCreate = "create"
	ActDecide = "decide"

	ObjChangeRequest = "change-request"
	ObjApproval      = "approval"
)

// Checker is what the HTTP middleware needs from the enforcer.
type Checker interface {
	Can(r role.Role, obj, act string) bool
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// actionPolicies are the non-navigation permissions.
var actionPolicies = [][]string{
	{string(role.Teknisi), ObjChangeRequest, ActCreate},
	{string(role.Kasi), ObjApproval, ActDecide},
	{string(role.Kabid), ObjApproval, ActDecide},
	{string(role.Diskominfo), ObjApproval, ActDecide},
}

func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(casbinModelContent)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(Policies()); err != nil {
		return nil, fmt.Errorf("load casbin policies: %w", err)
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// Policies lists every (role, object, action) rule. Each menu path grants view
// on itself and on its detail routes.
func Policies() [][]string {
	var rules [][]string
	for _, r := range role.All {
		for _, path := range navigation.Paths(r) {
			rules = append(rules, []string{string(r), path, ActView})
			if path != navigation.PathDashboard {
				rules = append(rules, []string{string(r), path + "/:id", ActView})
			}
		}
	}
	return append(rules, actionPolicies...)
}

func (e *Enforcer) Can(r role.Role, obj, act string) bool {
	ok, err := e.enforcer.Enforce(string(r), obj, act)
	return err == nil && ok
}

func (e *Enforcer) CanView(r role.Role, path string) bool {
	return e.Can(r, path, ActView)
}
