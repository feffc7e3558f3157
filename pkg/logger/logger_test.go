//go:build !integration

package logger

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		patterns  string
		namespace string
		enabled   bool
	}{
		{
			name:      "empty DEBUG disables everything",
			patterns:  "",
			namespace: "provision:gate",
			enabled:   false,
		},
		{
			name:      "star enables everything",
			patterns:  "*",
			namespace: "provision:gate",
			enabled:   true,
		},
		{
			name:      "exact namespace match",
			patterns:  "provision:gate",
			namespace: "provision:gate",
			enabled:   true,
		},
		{
			name:      "exact namespace mismatch",
			patterns:  "provision:gate",
			namespace: "provision:remap",
			enabled:   false,
		},
		{
			name:      "prefix wildcard",
			patterns:  "provision:*",
			namespace: "provision:remap",
			enabled:   true,
		},
		{
			name:      "prefix wildcard does not match other namespace",
			patterns:  "provision:*",
			namespace: "engine:exec",
			enabled:   false,
		},
		{
			name:      "comma separated list",
			patterns:  "engine:*,provision:*",
			namespace: "provision:activate",
			enabled:   true,
		},
		{
			name:      "exclusion wins over inclusion",
			patterns:  "*,-provision:remap",
			namespace: "provision:remap",
			enabled:   false,
		},
		{
			name:      "exclusion leaves siblings enabled",
			patterns:  "provision:*,-provision:remap",
			namespace: "provision:gate",
			enabled:   true,
		},
		{
			name:      "whitespace around patterns is tolerated",
			patterns:  " provision:* , engine:* ",
			namespace: "engine:exec",
			enabled:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matches(tt.patterns, tt.namespace); got != tt.enabled {
				t.Errorf("matches(%q, %q) = %v, want %v", tt.patterns, tt.namespace, got, tt.enabled)
			}
		})
	}
}

func TestNewReadsDebugEnv(t *testing.T) {
	t.Setenv("DEBUG", "provision:*")

	if !New("provision:gate").Enabled() {
		t.Error("expected provision:gate to be enabled")
	}
	if New("engine:exec").Enabled() {
		t.Error("expected engine:exec to be disabled")
	}
}
