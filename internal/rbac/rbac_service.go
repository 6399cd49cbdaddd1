package rbac

import (
	"github.com/dilinamewan/Employee-Directory/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.SyncedEnforcer
	logger   *zap.Logger
}

// NewService replaces whatever policy enforcer holds with policy.
func NewService(enforcer *casbin.SyncedEnforcer, policy Policy, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer.ClearPolicy()
	if rm := enforcer.GetRoleManager(); rm != nil {
		if err := rm.Clear(); err != nil {
			return nil, err
		}
	}

	rules := make([][]string, 0, len(policy.Rules))
	for _, r := range policy.Rules {
		rules = append(rules, []string{r.Role, r.Resource, r.Action})
	}
	if len(rules) > 0 {
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return nil, err
		}
	}

	var groups [][]string
	for role, parents := range policy.Inherits {
		for _, p := range parents {
			groups = append(groups, []string{role, p})
		}
	}
	if len(groups) > 0 {
		if _, err := enforcer.AddGroupingPolicies(groups); err != nil {
			return nil, err
		}
	}

	l.Info("rbac policy loaded", zap.Int("rules", len(rules)), zap.Int("groupings", len(groups)))
	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
