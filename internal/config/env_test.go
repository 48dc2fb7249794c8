package config

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("INVADERS_TEST_STR", "value")
	if got := GetEnv("INVADERS_TEST_STR", "fallback"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}
	if got := GetEnv("INVADERS_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestGetEnvTyped(t *testing.T) {
	tests := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{
			name:  "int",
			value: "2222",
			check: func(t *testing.T) {
				if got := GetEnvInt("INVADERS_TEST_TYPED", 1); got != 2222 {
					t.Errorf("expected 2222, got %d", got)
				}
			},
		},
		{
			name:  "bad int falls back",
			value: "nope",
			check: func(t *testing.T) {
				if got := GetEnvInt("INVADERS_TEST_TYPED", 7); got != 7 {
					t.Errorf("expected fallback 7, got %d", got)
				}
			},
		},
		{
			name:  "bool",
			value: "true",
			check: func(t *testing.T) {
				if !GetEnvBool("INVADERS_TEST_TYPED", false) {
					t.Error("expected true")
				}
			},
		},
		{
			name:  "duration",
			value: "90s",
			check: func(t *testing.T) {
				if got := GetEnvDuration("INVADERS_TEST_TYPED", time.Second); got != 90*time.Second {
					t.Errorf("expected 90s, got %v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("INVADERS_TEST_TYPED", tt.value)
			tt.check(t)
		})
	}
}
