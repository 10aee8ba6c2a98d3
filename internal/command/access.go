package command

import (
	"github.com/iliyamo/cinema-console/internal/config"
	"github.com/iliyamo/cinema-console/internal/model"
)

// sessionVerbs are always available, whatever the policy says.
var sessionVerbs = map[string]bool{"help": true, "clear": true, "logOut": true, "exit": true}

// AccessPolicy is the optional per-verb capability check. The zero value
// allows everything, leaving enforcement to the database grants of the
// session's role.
type AccessPolicy struct {
	enforce bool
	allowed map[string]map[model.Role]bool
}

// NewAccessPolicy builds a policy from configuration. Verbs missing from
// cfg.Verbs stay open to every role.
func NewAccessPolicy(cfg config.AccessConfig) AccessPolicy {
	p := AccessPolicy{enforce: cfg.Enforce, allowed: make(map[string]map[model.Role]bool, len(cfg.Verbs))}
	for verb, roles := range cfg.Verbs {
		set := make(map[model.Role]bool, len(roles))
		for _, r := range roles {
			set[model.Role(r)] = true
		}
		p.allowed[verb] = set
	}
	return p
}

// Allows reports whether role may run verb.
func (p AccessPolicy) Allows(verb string, role model.Role) bool {
	if !p.enforce || sessionVerbs[verb] {
		return true
	}
	set, listed := p.allowed[verb]
	if !listed {
		return true
	}
	return set[role]
}
