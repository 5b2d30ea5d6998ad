// Package config loads and validates the calibration configuration:
// the layer rubric, per-role fusion weights, layer requirement
// profiles, method declarations, and the intrinsic score registry.
//
// The configuration is loaded exactly once per process, validated
// eagerly, and treated as read-only afterwards. Every validation
// failure here is fatal: the engine refuses to run on a degraded
// configuration rather than clamp or renormalize.
package config

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pthm/calgate/internal/fusion"
	"github.com/pthm/calgate/internal/layers"
	"github.com/pthm/calgate/internal/registry"
)

//go:embed defaults/calibration.yaml
var defaultFS embed.FS

// Thresholds groups the decision and validation thresholds.
type Thresholds struct {
	Default          float64                 `yaml:"default"`
	ConditionalBand  float64                 `yaml:"conditional_band"`
	AttributionFloor float64                 `yaml:"attribution_floor"`
	Universality     float64                 `yaml:"universality"`
	PerRole          map[layers.Role]float64 `yaml:"per_role"`
}

// ForRole resolves the validation threshold for a role.
func (t Thresholds) ForRole(r layers.Role) float64 {
	if v, ok := t.PerRole[r]; ok {
		return v
	}
	return t.Default
}

// Vocabulary enumerates the contextual domain the anti-universality
// scan covers.
type Vocabulary struct {
	Questions  []string `yaml:"questions"`
	Dimensions []string `yaml:"dimensions"`
	Policies   []string `yaml:"policies"`
}

// Method is one method's compiled declaration.
type Method struct {
	ID             string
	Role           layers.Role
	Active         []layers.Layer
	Compat         layers.CompatDecl
	Justifications map[layers.Layer]string
}

// Config is the fully loaded and validated calibration configuration.
type Config struct {
	Version      string
	Hash         string
	Thresholds   Thresholds
	Rubric       layers.Rubric
	Requirements Requirements
	Fusion       map[layers.Role]fusion.Config
	Vocabulary   Vocabulary
	Methods      map[string]Method
	Registry     *registry.Registry
}

// MethodSpec looks up a method declaration.
func (c *Config) MethodSpec(id string) (Method, bool) {
	m, ok := c.Methods[id]
	return m, ok
}

// MethodIDs returns all declared method IDs in sorted order.
func (c *Config) MethodIDs() []string {
	ids := make([]string, 0, len(c.Methods))
	for id := range c.Methods {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Raw file schema. Layer references are canonical tags; they are
// resolved to the closed enum during compilation.

type fileConfig struct {
	Version      string                `yaml:"version"`
	Thresholds   Thresholds            `yaml:"thresholds"`
	Rubric       layers.Rubric         `yaml:"rubric"`
	Requirements map[string][]string   `yaml:"requirements"`
	Fusion       map[string]fusionSpec `yaml:"fusion"`
	Vocabulary   Vocabulary            `yaml:"vocabulary"`
	Methods      map[string]methodSpec `yaml:"methods"`
}

type fusionSpec struct {
	Linear       map[string]float64 `yaml:"linear"`
	Interactions []interactionSpec  `yaml:"interactions"`
}

type interactionSpec struct {
	A         string  `yaml:"a"`
	B         string  `yaml:"b"`
	Weight    float64 `yaml:"weight"`
	Rationale string  `yaml:"rationale"`
}

type methodSpec struct {
	Role           string            `yaml:"role"`
	ActiveLayers   []string          `yaml:"active_layers"`
	Intrinsic      registry.Entry    `yaml:"intrinsic"`
	Compatibility  layers.CompatDecl `yaml:"compatibility"`
	Justifications map[string]string `yaml:"justifications"`
}

// LoadDefault loads the embedded builtin configuration.
func LoadDefault() (*Config, error) {
	data, err := defaultFS.ReadFile("defaults/calibration.yaml")
	if err != nil {
		return nil, fmt.Errorf("read builtin config: %w", err)
	}
	return Load(data)
}

// LoadFile loads a configuration from an external YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Load parses, compiles, and fully validates a configuration. Any
// failure aborts the load.
func Load(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, layers.Configf("parse config: %v", err)
	}

	cfg, err := compile(&fc)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	cfg.Hash = hex.EncodeToString(sum[:])

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compile(fc *fileConfig) (*Config, error) {
	cfg := &Config{
		Version:    fc.Version,
		Thresholds: fc.Thresholds,
		Rubric:     fc.Rubric,
		Vocabulary: fc.Vocabulary,
		Fusion:     make(map[layers.Role]fusion.Config, len(fc.Fusion)),
		Methods:    make(map[string]Method, len(fc.Methods)),
	}

	reqs, err := compileRequirements(fc.Requirements)
	if err != nil {
		return nil, err
	}
	cfg.Requirements = reqs

	for roleName, spec := range fc.Fusion {
		role, err := layers.ParseRole(roleName)
		if err != nil {
			return nil, layers.Configf("fusion: %v", err)
		}
		fcfg, err := compileFusion(spec)
		if err != nil {
			return nil, layers.Configf("fusion for role %s: %v", role, err)
		}
		cfg.Fusion[role] = fcfg
	}

	entries := make(map[string]registry.Entry, len(fc.Methods))
	for id, spec := range fc.Methods {
		m, err := compileMethod(id, spec)
		if err != nil {
			return nil, err
		}
		cfg.Methods[id] = m
		entries[id] = spec.Intrinsic
	}

	reg, err := registry.New(entries)
	if err != nil {
		return nil, layers.Configf("%v", err)
	}
	cfg.Registry = reg

	return cfg, nil
}

func compileFusion(spec fusionSpec) (fusion.Config, error) {
	out := fusion.Config{Linear: make(map[layers.Layer]float64, len(spec.Linear))}
	for tag, w := range spec.Linear {
		l, err := layers.Parse(tag)
		if err != nil {
			return fusion.Config{}, err
		}
		out.Linear[l] = w
	}
	for _, is := range spec.Interactions {
		a, err := layers.Parse(is.A)
		if err != nil {
			return fusion.Config{}, err
		}
		b, err := layers.Parse(is.B)
		if err != nil {
			return fusion.Config{}, err
		}
		out.Interactions = append(out.Interactions, fusion.InteractionTerm{
			A: a, B: b, Weight: is.Weight, Rationale: is.Rationale,
		})
	}
	return out, nil
}

func compileMethod(id string, spec methodSpec) (Method, error) {
	role, err := layers.ParseRole(spec.Role)
	if err != nil {
		return Method{}, layers.Configf("method %s: %v", id, err)
	}
	m := Method{
		ID:             id,
		Role:           role,
		Compat:         spec.Compatibility,
		Justifications: make(map[layers.Layer]string, len(spec.Justifications)),
	}
	for _, tag := range spec.ActiveLayers {
		l, err := layers.Parse(tag)
		if err != nil {
			return Method{}, layers.Configf("method %s active layers: %v", id, err)
		}
		m.Active = append(m.Active, l)
	}
	for tag, reason := range spec.Justifications {
		l, err := layers.Parse(tag)
		if err != nil {
			return Method{}, layers.Configf("method %s justifications: %v", id, err)
		}
		m.Justifications[l] = reason
	}
	if err := validateCompatTiers(id, m.Compat); err != nil {
		return Method{}, err
	}
	return m, nil
}

func validateCompatTiers(id string, decl layers.CompatDecl) error {
	for axisName, axis := range map[string]map[string]layers.CompatTier{
		"question": decl.Question, "dimension": decl.Dimension, "policy": decl.Policy,
	} {
		for value, tier := range axis {
			switch tier {
			case layers.TierPrimary, layers.TierSecondary, layers.TierCompatible,
				layers.TierUndeclared, layers.TierIncompatible:
			default:
				return layers.Configf("method %s: %s axis value %q declares unknown tier %q",
					id, axisName, value, tier)
			}
		}
	}
	return nil
}

// Validate runs every load-time validation in order: rubric constants,
// fusion normalization per role, requirement coverage per method, and
// the anti-universality scan.
func (c *Config) Validate() error {
	for _, check := range c.Checks() {
		if check.Err != nil {
			return check.Err
		}
	}
	return nil
}

// CheckResult is one named validation outcome, for audit reporting.
type CheckResult struct {
	Name string
	Err  error
}

// Checks runs every load-time validation and reports each outcome
// individually. Load fails on the first error; `calgate config
// validate` surfaces all of them.
func (c *Config) Checks() []CheckResult {
	return []CheckResult{
		{"rubric_bounds", c.checkRubric()},
		{"fusion_normalization", c.checkFusion()},
		{"requirement_coverage", c.checkRequirements()},
		{"anti_universality", c.checkUniversality()},
	}
}

func (c *Config) checkRubric() error {
	if err := c.Rubric.Validate(); err != nil {
		return layers.Configf("%v", err)
	}
	if c.Thresholds.Default <= 0 || c.Thresholds.Default > 1 {
		return layers.Configf("default threshold %.4f outside (0,1]", c.Thresholds.Default)
	}
	return nil
}

func (c *Config) checkFusion() error {
	for _, role := range layers.Roles {
		fcfg, ok := c.Fusion[role]
		if !ok {
			return layers.Configf("role %s has no fusion configuration", role)
		}
		if err := fcfg.Validate(); err != nil {
			return fmt.Errorf("role %s: %w", role, err)
		}
		// Every required layer must carry a linear weight, or the
		// fused score could never reflect it.
		for _, l := range c.Requirements.For(role) {
			if _, ok := fcfg.Linear[l]; !ok {
				return layers.Configf("role %s: required layer %s has no linear weight", role, l)
			}
		}
	}
	return nil
}
