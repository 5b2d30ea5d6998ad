package config

import (
	"github.com/pthm/calgate/internal/layers"
)

// Requirements maps each role to its ordered set of required canonical
// layers. This is the single source of truth for which layers a method
// must run; no method may skip a required layer silently.
type Requirements map[layers.Role][]layers.Layer

// For returns the required layers for a role.
func (r Requirements) For(role layers.Role) []layers.Layer {
	return r[role]
}

func compileRequirements(raw map[string][]string) (Requirements, error) {
	reqs := make(Requirements, len(raw))
	for roleName, tags := range raw {
		role, err := layers.ParseRole(roleName)
		if err != nil {
			return nil, layers.Configf("requirements: %v", err)
		}
		var required []layers.Layer
		seen := make(map[layers.Layer]bool)
		for _, tag := range tags {
			l, err := layers.Parse(tag)
			if err != nil {
				return nil, layers.Configf("requirements for role %s: %v", role, err)
			}
			if seen[l] {
				return nil, layers.Configf("requirements for role %s list %s twice", role, l)
			}
			seen[l] = true
			required = append(required, l)
		}
		reqs[role] = required
	}
	return reqs, nil
}

// checkRequirements enforces the resolver contract: every catalogued
// role has a profile including the base layer, and every method's
// declared active-layer set is a superset of its role's required set.
// A gap must carry an approved justification or the load fails.
func (c *Config) checkRequirements() error {
	for _, role := range layers.Roles {
		required, ok := c.Requirements[role]
		if !ok {
			return layers.Configf("role %s has no layer requirement profile", role)
		}
		hasBase := false
		for _, l := range required {
			if l == layers.Base {
				hasBase = true
				break
			}
		}
		if !hasBase {
			return layers.Configf("role %s requirement profile omits %s; all roles require it",
				role, layers.Base)
		}
	}

	for _, id := range c.MethodIDs() {
		m := c.Methods[id]
		active := make(map[layers.Layer]bool, len(m.Active))
		for _, l := range m.Active {
			active[l] = true
		}
		for _, l := range c.Requirements.For(m.Role) {
			if active[l] {
				continue
			}
			if _, justified := m.Justifications[l]; justified {
				continue
			}
			return layers.Configf(
				"method %s (role %s) does not activate required layer %s and carries no justification",
				id, m.Role, l)
		}
	}
	return nil
}

// ActiveLayers resolves the layers to evaluate for a method: its
// declared active set intersected with what the role requires, in the
// canonical layer order. Justified gaps are honored (the justification
// was validated at load).
func (c *Config) ActiveLayers(m Method) []layers.Layer {
	active := make(map[layers.Layer]bool, len(m.Active))
	for _, l := range m.Active {
		active[l] = true
	}
	var ordered []layers.Layer
	for _, l := range layers.All {
		if active[l] {
			ordered = append(ordered, l)
		}
	}
	return ordered
}
