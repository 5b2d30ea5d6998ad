// Package registry exposes the intrinsic score registry: externally
// supplied, versioned quality scores for each canonical method. The
// calibration engine consumes these for the base layer and never
// computes them live.
package registry

import "fmt"

// Status classifies a registry entry.
type Status string

const (
	// StatusComputed means the entry carries real intrinsic scores.
	StatusComputed Status = "computed"
	// StatusPending means scoring has not finished; the engine falls
	// back to a neutral 0.5 for all three sub-scores.
	StatusPending Status = "pending"
	// StatusNone means the method was never scored; the engine falls
	// back to a conservative 0.3 and records a warning.
	StatusNone Status = "none"
	// StatusExcluded means the method is excluded from calibration
	// entirely; the subject is skipped, not scored.
	StatusExcluded Status = "excluded"
)

// Entry is one method's intrinsic record.
type Entry struct {
	Status  Status  `yaml:"status"`
	BTheory float64 `yaml:"b_theory"`
	BImpl   float64 `yaml:"b_impl"`
	BDeploy float64 `yaml:"b_deploy"`
	Version string  `yaml:"version"`
}

// Registry is a read-only lookup of intrinsic entries, loaded once at
// process start and shared across all calibration calls.
type Registry struct {
	entries map[string]Entry
}

// New builds a registry from loaded entries, validating score bounds.
func New(entries map[string]Entry) (*Registry, error) {
	for id, e := range entries {
		switch e.Status {
		case StatusComputed, StatusPending, StatusNone, StatusExcluded:
		default:
			return nil, fmt.Errorf("intrinsic entry %s: unknown status %q", id, e.Status)
		}
		if e.Status == StatusComputed {
			for name, v := range map[string]float64{"b_theory": e.BTheory, "b_impl": e.BImpl, "b_deploy": e.BDeploy} {
				if v < 0 || v > 1 {
					return nil, fmt.Errorf("intrinsic entry %s: %s = %.4f outside [0,1]", id, name, v)
				}
			}
		}
	}
	return &Registry{entries: entries}, nil
}

// Get returns the entry for a method. Unknown methods yield a
// StatusNone entry so the base layer applies its conservative fallback.
func (r *Registry) Get(methodID string) Entry {
	if e, ok := r.entries[methodID]; ok {
		return e
	}
	return Entry{Status: StatusNone}
}

// IsExcluded reports whether a method is excluded from calibration.
func (r *Registry) IsExcluded(methodID string) bool {
	return r.Get(methodID).Status == StatusExcluded
}

// Has reports whether the method is present in the registry at all.
func (r *Registry) Has(methodID string) bool {
	_, ok := r.entries[methodID]
	return ok
}

// Len returns the number of registered methods.
func (r *Registry) Len() int {
	return len(r.entries)
}
