package rbac

import (
	"go-leave/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// policies is the fixed role -> resource:action table. Roles are a closed
// set, so the policy lives in code rather than in a per-tenant store.
var policies = [][]string{
	{string(domain.RoleEmployee), "leave_type", "read"},
	{string(domain.RoleEmployee), "leave_request", "create"},
	{string(domain.RoleEmployee), "leave_request", "read_own"},
	{string(domain.RoleEmployee), "leave_request", "cancel"},
	{string(domain.RoleEmployee), "allocation", "read_own"},

	{string(domain.RoleManager), "leave_type", "read"},
	{string(domain.RoleManager), "leave_request", "read"},
	{string(domain.RoleManager), "leave_request", "read_own"},
	{string(domain.RoleManager), "leave_request", "create"},
	{string(domain.RoleManager), "leave_request", "cancel"},
	{string(domain.RoleManager), "leave_request", "approve"},
	{string(domain.RoleManager), "allocation", "read_own"},

	{string(domain.RoleAdministrator), "leave_type", "read"},
	{string(domain.RoleAdministrator), "leave_type", "manage"},
	{string(domain.RoleAdministrator), "leave_request", "read"},
	{string(domain.RoleAdministrator), "leave_request", "read_own"},
	{string(domain.RoleAdministrator), "leave_request", "create"},
	{string(domain.RoleAdministrator), "leave_request", "cancel"},
	{string(domain.RoleAdministrator), "leave_request", "approve"},
	{string(domain.RoleAdministrator), "allocation", "read_own"},
	{string(domain.RoleAdministrator), "allocation", "seed"},
	{string(domain.RoleAdministrator), "employee", "manage"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role domain.Role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role domain.Role, resource, action string) (bool, error) {
	if !role.IsValid() {
		return false, nil
	}
	return s.enforcer.Enforce(string(role), resource, action)
}
