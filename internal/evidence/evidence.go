package evidence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MissingFieldError identifies exactly which evidence a layer evaluator
// needed and did not get. It is a per-call failure, never substituted
// with a default: the subject fails closed.
type MissingFieldError struct {
	Layer string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("layer %s: required evidence field %q absent", e.Layer, e.Field)
}

// Missing constructs a MissingFieldError.
func Missing(layer, field string) error {
	return &MissingFieldError{Layer: layer, Field: field}
}

// Bundle carries the per-layer evidence for one calibration call.
// Sections are pointers so absence is distinguishable from a zero
// value; an evaluator whose section is nil raises a MissingFieldError.
type Bundle struct {
	Chain      *ChainEvidence      `yaml:"chain"`
	Unit       *UnitEvidence       `yaml:"unit"`
	Meta       *MetaEvidence       `yaml:"meta"`
	Congruence *CongruenceEvidence `yaml:"congruence"`
}

// ChainEvidence is the contract-validation outcome for the subject's
// position in its computation chain.
type ChainEvidence struct {
	MissingRequired   []string `yaml:"missing_required"`
	TypeMismatches    []string `yaml:"type_mismatches"`
	MissingBeneficial []string `yaml:"missing_beneficial"`
	SchemaDeviations  []string `yaml:"schema_deviations"`
	Warnings          []string `yaml:"warnings"`
}

// UnitEvidence feeds the unit layer's hard gates. StructuralCompliance
// and IndicatorMatrixPresent are required for unit-sensitive roles.
type UnitEvidence struct {
	StructuralCompliance   *float64 `yaml:"structural_compliance"`
	IndicatorMatrixPresent *bool    `yaml:"indicator_matrix_present"`
}

// MetaEvidence carries the transparency and governance booleans plus
// measured cost.
type MetaEvidence struct {
	FormulaExported   *bool    `yaml:"formula_exported"`
	TraceComplete     *bool    `yaml:"trace_complete"`
	LogsConformSchema *bool    `yaml:"logs_conform_schema"`
	VersionTagged     *bool    `yaml:"version_tagged"`
	ConfigHashMatches *bool    `yaml:"config_hash_matches"`
	SignatureValid    *bool    `yaml:"signature_valid"`
	RuntimeMS         *float64 `yaml:"runtime_ms"`
	MemoryMB          *float64 `yaml:"memory_mb"`
}

// Member describes one method inside an interplay group.
type Member struct {
	MethodID           string   `yaml:"method"`
	OutputRange        string   `yaml:"output_range"`
	ConceptTags        []string `yaml:"concept_tags"`
	TransformDeclared  bool     `yaml:"transform_declared"`
	InputPresent       bool     `yaml:"input_present"`
}

// InterplayGroup describes a set of co-acting methods whose outputs are
// combined toward one shared target.
type InterplayGroup struct {
	GroupID    string   `yaml:"group_id"`
	Members    []Member `yaml:"members"`
	FusionRule string   `yaml:"fusion_rule"`
}

// CongruenceEvidence drives the @C layer. Interplay is nil when the
// subject acts alone.
type CongruenceEvidence struct {
	Registered bool            `yaml:"registered"`
	Interplay  *InterplayGroup `yaml:"interplay"`
}

// LoadFile reads an evidence bundle from a YAML file.
func LoadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read evidence file: %w", err)
	}
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse evidence file %s: %w", path, err)
	}
	return &b, nil
}
