package config

import (
	"github.com/pthm/calgate/internal/layers"
)

// checkUniversality rejects any method declared maximally compatible
// across the entire contextual domain. A method scoring at or above
// the universality threshold on all three contextual layers for every
// (question, dimension, policy) combination has defeated contextual
// scoring and the configuration is refused.
//
// The scan runs once at load, never per call. An empty vocabulary on
// any axis leaves nothing to be universal over and skips the scan.
func (c *Config) checkUniversality() error {
	if len(c.Vocabulary.Questions) == 0 ||
		len(c.Vocabulary.Dimensions) == 0 ||
		len(c.Vocabulary.Policies) == 0 {
		return nil
	}

	threshold := c.Thresholds.Universality
	for _, id := range c.MethodIDs() {
		m := c.Methods[id]
		if !contextualMethod(c, m) {
			continue
		}
		if c.universalOnAxis(m.Compat.Question, c.Vocabulary.Questions, threshold) &&
			c.universalOnAxis(m.Compat.Dimension, c.Vocabulary.Dimensions, threshold) &&
			c.universalOnAxis(m.Compat.Policy, c.Vocabulary.Policies, threshold) {
			return layers.Configf(
				"method %s declares compatibility >= %.2f on every question, dimension, "+
					"and policy area; universal applicability is not accepted",
				id, threshold)
		}
	}
	return nil
}

// contextualMethod reports whether the method activates any contextual
// layer; methods without @q/@d/@p declarations cannot be universal.
func contextualMethod(c *Config, m Method) bool {
	for _, l := range m.Active {
		if l.Contextual() {
			return true
		}
	}
	return false
}

func (c *Config) universalOnAxis(axis map[string]layers.CompatTier, domain []string, threshold float64) bool {
	for _, value := range domain {
		tier, ok := axis[value]
		if !ok {
			tier = layers.TierUndeclared
		}
		score, err := c.Rubric.Contextual.TierValue(tier)
		if err != nil || score < threshold {
			return false
		}
	}
	return true
}
