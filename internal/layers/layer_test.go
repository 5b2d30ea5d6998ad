package layers

import (
	"testing"
)

func TestLayerStringParseRoundTrip(t *testing.T) {
	for _, l := range All {
		tag := l.String()
		parsed, err := Parse(tag)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tag, err)
		}
		if parsed != l {
			t.Errorf("Parse(%q) = %v, want %v", tag, parsed, l)
		}
	}
}

func TestParseUnknownTag(t *testing.T) {
	for _, tag := range []string{"", "@x", "base", "@B"} {
		if _, err := Parse(tag); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", tag)
		}
	}
}

func TestContextualLayers(t *testing.T) {
	tests := []struct {
		layer      Layer
		contextual bool
	}{
		{Base, false},
		{Chain, false},
		{Unit, false},
		{Question, true},
		{Dimension, true},
		{Policy, true},
		{Congruence, false},
		{Meta, false},
	}
	for _, tt := range tests {
		if got := tt.layer.Contextual(); got != tt.contextual {
			t.Errorf("%s.Contextual() = %v, want %v", tt.layer, got, tt.contextual)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		parsed, err := ParseRole(string(r))
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", r, err)
		}
		if parsed != r {
			t.Errorf("ParseRole(%q) = %v, want %v", r, parsed, r)
		}
	}
	if _, err := ParseRole("druid"); err == nil {
		t.Error("ParseRole accepted an unknown role")
	}
}
