package guard

import (
	"testing"
	"time"
)

func TestGuard_CheckExposure(t *testing.T) {
	g := New(Policy{MaxExposures: 3, Rounds: 3})

	t.Run("Below limit", func(t *testing.T) {
		for _, count := range []int{0, 1, 2} {
			if v := g.CheckExposure(count); v != nil {
				t.Errorf("Unexpected violation for %d: %v", count, v.Message)
			}
		}
	})

	t.Run("At or above limit", func(t *testing.T) {
		for _, count := range []int{3, 4, 100} {
			v := g.CheckExposure(count)
			if v == nil {
				t.Fatalf("Expected violation for %d", count)
			}
			if v.Fatal {
				t.Error("Exposure violations should not be fatal")
			}
			if v.Rule != "max_exposures" {
				t.Errorf("Expected rule max_exposures, got %s", v.Rule)
			}
		}
	})
}

func TestGuard_CheckRound(t *testing.T) {
	g := New(Policy{MaxExposures: 7, Rounds: 2})

	if v := g.CheckRound(2); v != nil {
		t.Errorf("Unexpected violation: %v", v.Message)
	}
	if v := g.CheckRound(3); v == nil || !v.Fatal {
		t.Error("Expected fatal round violation")
	}
}

func TestGuard_CheckRange(t *testing.T) {
	g := New(DefaultPolicy)

	tests := []struct {
		name       string
		start, end int
		wantMsg    string
	}{
		{"valid", 0, 2, ""},
		{"single word", 1, 1, ""},
		{"missing start", -1, 2, "One or both words not found in unit."},
		{"missing end", 0, -1, "One or both words not found in unit."},
		{"reversed", 2, 0, "Start word must come before end word."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.CheckRange(tt.start, tt.end)
			if tt.wantMsg == "" {
				if v != nil {
					t.Errorf("Unexpected violation: %v", v.Message)
				}
				return
			}
			if v == nil {
				t.Fatal("Expected violation")
			}
			if v.Error() != tt.wantMsg {
				t.Errorf("Expected %q, got %q", tt.wantMsg, v.Error())
			}
		})
	}
}

func TestPolicy_Validate(t *testing.T) {
	if err := DefaultPolicy.Validate(); err != nil {
		t.Errorf("DefaultPolicy should be valid: %v", err)
	}

	bad := []Policy{
		{MaxExposures: 0, Rounds: 7},
		{MaxExposures: 7, Rounds: 0},
		{MaxExposures: 7, Rounds: 7, RevealDelay: -time.Second},
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("Expected error for %+v", p)
		}
	}
}

func TestGuard_Policy(t *testing.T) {
	g := New(DefaultPolicy)
	if g.Policy().MaxExposures != 7 || g.Policy().Rounds != 7 || g.Policy().RevealDelay != 3*time.Second {
		t.Errorf("Unexpected default policy: %+v", g.Policy())
	}
}
