package evidence

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "evidence.yaml")
	data := `
chain:
  warnings: ["deprecated field"]
unit:
  structural_compliance: 0.85
  indicator_matrix_present: true
meta:
  formula_exported: true
  trace_complete: true
  logs_conform_schema: false
  version_tagged: true
  config_hash_matches: true
  signature_valid: true
  runtime_ms: 240
  memory_mb: 96
congruence:
  registered: true
  interplay:
    group_id: g1
    fusion_rule: weighted_mean
    members:
      - method: a
        output_range: "[0,1]"
        concept_tags: [stance]
        input_present: true
      - method: b
        output_range: "[0,1]"
        concept_tags: [stance]
        input_present: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if b.Chain == nil || len(b.Chain.Warnings) != 1 {
		t.Error("chain section not decoded")
	}
	if b.Unit == nil || b.Unit.StructuralCompliance == nil || *b.Unit.StructuralCompliance != 0.85 {
		t.Error("unit section not decoded")
	}
	if b.Unit.IndicatorMatrixPresent == nil || !*b.Unit.IndicatorMatrixPresent {
		t.Error("indicator flag not decoded")
	}
	if b.Meta == nil || b.Meta.LogsConformSchema == nil || *b.Meta.LogsConformSchema {
		t.Error("meta booleans not decoded as pointers")
	}
	if b.Congruence == nil || b.Congruence.Interplay == nil || len(b.Congruence.Interplay.Members) != 2 {
		t.Error("congruence interplay not decoded")
	}
}

func TestLoadFileAbsentSectionsStayNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("chain: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if b.Chain == nil {
		t.Error("declared chain section decoded as nil")
	}
	if b.Unit != nil || b.Meta != nil || b.Congruence != nil {
		t.Error("absent sections must stay nil so evaluators fail closed")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chain: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestMissingFieldErrorMessage(t *testing.T) {
	err := Missing("@u", "structural_compliance")
	want := `layer @u: required evidence field "structural_compliance" absent`
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}
