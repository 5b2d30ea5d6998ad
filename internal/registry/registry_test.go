package registry

import (
	"testing"
)

func TestNewValidatesEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]Entry
		wantErr bool
	}{
		{
			name: "valid mix of statuses",
			entries: map[string]Entry{
				"a": {Status: StatusComputed, BTheory: 0.8, BImpl: 0.9, BDeploy: 0.7, Version: "1.0.0"},
				"b": {Status: StatusPending},
				"c": {Status: StatusExcluded},
			},
		},
		{
			name:    "unknown status",
			entries: map[string]Entry{"a": {Status: "retired"}},
			wantErr: true,
		},
		{
			name:    "computed entry with out-of-range score",
			entries: map[string]Entry{"a": {Status: StatusComputed, BTheory: 1.2}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetUnknownFallsBackToNone(t *testing.T) {
	r, err := New(map[string]Entry{"a": {Status: StatusPending}})
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Get("unknown").Status; got != StatusNone {
		t.Errorf("status = %s, want %s", got, StatusNone)
	}
	if r.Has("unknown") {
		t.Error("Has reports an absent method")
	}
	if !r.Has("a") {
		t.Error("Has misses a present method")
	}
}

func TestIsExcluded(t *testing.T) {
	r, err := New(map[string]Entry{
		"in":  {Status: StatusComputed, BTheory: 0.5, BImpl: 0.5, BDeploy: 0.5},
		"out": {Status: StatusExcluded},
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.IsExcluded("in") {
		t.Error("computed method reported excluded")
	}
	if !r.IsExcluded("out") {
		t.Error("excluded method not reported")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}
